package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"foodtruck/internal/authz"
	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"github.com/shopspring/decimal"
)

const msgMenuItemNotOwned = "Menu item not found or you do not own this truck"

type MenuItemUsecase struct {
	trucks repo.TruckRepository
	menu   repo.MenuItemRepository
}

func NewMenuItemUsecase(trucks repo.TruckRepository, menu repo.MenuItemRepository) *MenuItemUsecase {
	return &MenuItemUsecase{trucks: trucks, menu: menu}
}

// TruckIDが0ならオーナーの先頭トラック
type CreateMenuItemInput struct {
	TruckID     int64
	Name        string
	Description string
	Category    string
	Price       *decimal.Decimal
}

type UpdateMenuItemInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Status      *string
}

// 公開メニュー（販売中のみ、カテゴリ指定可）
func (u *MenuItemUsecase) ListForTruck(ctx context.Context, truckID int64, category string) ([]model.MenuItem, error) {
	if truckID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid truckId")
	}
	items, err := u.menu.List(ctx, repo.MenuItemFilter{
		TruckID:       truckID,
		Category:      strings.TrimSpace(category),
		OnlyAvailable: true,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

// オーナーの全トラックのメニュー（販売停止も含む）
func (u *MenuItemUsecase) ListMine(ctx context.Context, p authz.Principal) ([]model.MenuItem, error) {
	items, err := u.menu.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

func (u *MenuItemUsecase) GetMine(ctx context.Context, p authz.Principal, itemID int64) (model.MenuItem, error) {
	return u.owned(ctx, p, itemID)
}

func (u *MenuItemUsecase) Create(ctx context.Context, p authz.Principal, in CreateMenuItemInput) (model.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" || in.Price == nil {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Name, price, and category are required")
	}
	if !in.Price.IsPositive() {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Price must be a positive number")
	}

	truck, err := u.targetTruck(ctx, p, in.TruckID)
	if err != nil {
		return model.MenuItem{}, err
	}

	item := model.MenuItem{
		TruckID:     truck.ID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Price:       in.Price.Round(2),
		Status:      model.MenuItemAvailable,
	}
	if err := u.menu.Create(ctx, &item); err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

func (u *MenuItemUsecase) Update(ctx context.Context, p authz.Principal, itemID int64, in UpdateMenuItemInput) (model.MenuItem, error) {
	if _, err := u.owned(ctx, p, itemID); err != nil {
		return model.MenuItem{}, err
	}

	var patch repo.MenuItemPatch
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Name cannot be empty")
		}
		patch.Name = &v
	}
	if in.Description != nil {
		v := strings.TrimSpace(*in.Description)
		patch.Description = &v
	}
	if in.Category != nil {
		v := strings.TrimSpace(*in.Category)
		if v == "" {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Category cannot be empty")
		}
		patch.Category = &v
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Price must be a positive number")
		}
		v := in.Price.Round(2)
		patch.Price = &v
	}
	if in.Status != nil {
		v := model.MenuItemStatus(strings.TrimSpace(*in.Status))
		if v != model.MenuItemAvailable && v != model.MenuItemUnavailable {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "Valid status is required (available or unavailable)")
		}
		patch.Status = &v
	}

	item, err := u.menu.Update(ctx, itemID, patch)
	if errors.Is(err, repo.ErrNotFound) {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, msgMenuItemNotOwned)
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

// 論理削除（statusをunavailableにするだけ）
func (u *MenuItemUsecase) Delete(ctx context.Context, p authz.Principal, itemID int64) error {
	status := string(model.MenuItemUnavailable)
	_, err := u.Update(ctx, p, itemID, UpdateMenuItemInput{Status: &status})
	return err
}

func (u *MenuItemUsecase) targetTruck(ctx context.Context, p authz.Principal, truckID int64) (model.Truck, error) {
	if truckID <= 0 {
		trucks, err := u.trucks.ListByOwner(ctx, p.UserID)
		if err != nil {
			return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(trucks) == 0 {
			return model.Truck{}, NewHTTPError(http.StatusNotFound, "No trucks found for this owner")
		}
		return trucks[0], nil
	}

	t, err := u.trucks.FindByID(ctx, truckID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.CanManageTruck(t)) {
		return model.Truck{}, NewHTTPError(http.StatusNotFound, msgTruckNotOwned)
	}
	if err != nil {
		return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

// 商品とそのトラックの所有者を確認
func (u *MenuItemUsecase) owned(ctx context.Context, p authz.Principal, itemID int64) (model.MenuItem, error) {
	if itemID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	item, err := u.menu.FindByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, msgMenuItemNotOwned)
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	t, err := u.trucks.FindByID(ctx, item.TruckID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.CanManageTruck(t)) {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, msgMenuItemNotOwned)
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

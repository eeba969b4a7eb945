package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"foodtruck/internal/authz"
	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"
)

const (
	msgTruckNotFound  = "Truck not found"
	msgTruckNotOwned  = "Truck not found or you do not own this truck"
	msgTruckNameTaken = "Truck with this name already exists"
)

type TruckUsecase struct {
	tx     repo.TransactionManager
	trucks repo.TruckRepository
	menu   repo.MenuItemRepository
}

func NewTruckUsecase(tx repo.TransactionManager, trucks repo.TruckRepository, menu repo.MenuItemRepository) *TruckUsecase {
	return &TruckUsecase{tx: tx, trucks: trucks, menu: menu}
}

type CreateTruckInput struct {
	Name string
	Logo string
}

type UpdateTruckInput struct {
	Name        *string
	Logo        *string
	OrderStatus *string
}

// 公開（承認済み）トラック
func (u *TruckUsecase) ListPublic(ctx context.Context) ([]model.Truck, error) {
	ts := model.TruckStatusAvailable
	return u.list(ctx, repo.TruckListFilter{TruckStatus: &ts})
}

// 注文受付中のトラックだけ
func (u *TruckUsecase) ListOrderable(ctx context.Context) ([]model.Truck, error) {
	ts := model.TruckStatusAvailable
	os := model.TruckOrderAvailable
	return u.list(ctx, repo.TruckListFilter{TruckStatus: &ts, OrderStatus: &os})
}

func (u *TruckUsecase) list(ctx context.Context, f repo.TruckListFilter) ([]model.Truck, error) {
	trucks, err := u.trucks.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if trucks == nil {
		trucks = []model.Truck{}
	}
	return trucks, nil
}

func (u *TruckUsecase) Get(ctx context.Context, truckID int64) (model.Truck, error) {
	if truckID <= 0 {
		return model.Truck{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := u.trucks.FindByID(ctx, truckID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Truck{}, NewHTTPError(http.StatusNotFound, msgTruckNotFound)
	}
	if err != nil {
		return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

// 販売中のメニュー
func (u *TruckUsecase) Menu(ctx context.Context, truckID int64) ([]model.MenuItem, error) {
	if _, err := u.Get(ctx, truckID); err != nil {
		return nil, err
	}
	items, err := u.menu.List(ctx, repo.MenuItemFilter{TruckID: truckID, OnlyAvailable: true})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 自分のトラック（0台なら空）
func (u *TruckUsecase) ListMine(ctx context.Context, p authz.Principal) ([]model.Truck, error) {
	trucks, err := u.trucks.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if trucks == nil {
		trucks = []model.Truck{}
	}
	return trucks, nil
}

// 先頭の1台。無ければ404
func (u *TruckUsecase) FirstMine(ctx context.Context, p authz.Principal) (model.Truck, error) {
	trucks, err := u.ListMine(ctx, p)
	if err != nil {
		return model.Truck{}, err
	}
	if len(trucks) == 0 {
		return model.Truck{}, NewHTTPError(http.StatusNotFound, "No trucks found for this owner")
	}
	return trucks[0], nil
}

// Create はオーナーのトラック追加（承認済みオーナーなのでそのままavailable）
func (u *TruckUsecase) Create(ctx context.Context, p authz.Principal, in CreateTruckInput) (model.Truck, error) {
	if !p.Can(authz.CapManageTrucks) {
		return model.Truck{}, NewHTTPError(http.StatusForbidden, "Only truck owners can create trucks")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Truck{}, NewHTTPError(http.StatusBadRequest, "Truck name is required")
	}

	exists, err := u.trucks.ExistsByName(ctx, name, 0)
	if err != nil {
		return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Truck{}, NewHTTPError(http.StatusConflict, msgTruckNameTaken)
	}

	t := model.Truck{
		Name:        name,
		Logo:        strings.TrimSpace(in.Logo),
		OwnerID:     p.UserID,
		TruckStatus: model.TruckStatusAvailable,
		OrderStatus: model.TruckOrderAvailable,
	}
	if err := u.trucks.Create(ctx, &t); err != nil {
		//同時作成で負けた場合
		if errors.Is(err, repo.ErrConflict) {
			return model.Truck{}, NewHTTPError(http.StatusConflict, msgTruckNameTaken)
		}
		return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

// Update は部分更新（nilのフィールドは変更しない）
func (u *TruckUsecase) Update(ctx context.Context, p authz.Principal, truckID int64, in UpdateTruckInput) (model.Truck, error) {
	if _, err := u.owned(ctx, p, truckID); err != nil {
		return model.Truck{}, err
	}

	var patch repo.TruckPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Truck{}, NewHTTPError(http.StatusBadRequest, "Truck name is required")
		}
		exists, err := u.trucks.ExistsByName(ctx, name, truckID)
		if err != nil {
			return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return model.Truck{}, NewHTTPError(http.StatusConflict, msgTruckNameTaken)
		}
		patch.Name = &name
	}
	if in.Logo != nil {
		logo := strings.TrimSpace(*in.Logo)
		patch.Logo = &logo
	}
	if in.OrderStatus != nil {
		os, err := parseTruckOrderStatus(*in.OrderStatus)
		if err != nil {
			return model.Truck{}, err
		}
		patch.OrderStatus = &os
	}

	t, err := u.trucks.Update(ctx, truckID, patch)
	if errors.Is(err, repo.ErrConflict) {
		return model.Truck{}, NewHTTPError(http.StatusConflict, msgTruckNameTaken)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.Truck{}, NewHTTPError(http.StatusNotFound, msgTruckNotOwned)
	}
	if err != nil {
		return model.Truck{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

// 注文受付の切り替えだけ
func (u *TruckUsecase) UpdateOrderStatus(ctx context.Context, p authz.Principal, truckID int64, status string) (model.Truck, error) {
	if truckID <= 0 {
		return model.Truck{}, NewHTTPError(http.StatusBadRequest, "truckId is required")
	}
	return u.Update(ctx, p, truckID, UpdateTruckInput{OrderStatus: &status})
}

// Delete はトラックと、それを参照するカート・注文・メニューをまとめて消す
func (u *TruckUsecase) Delete(ctx context.Context, p authz.Principal, truckID int64) error {
	if _, err := u.owned(ctx, p, truckID); err != nil {
		return err
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return deleteTruckCascade(ctx, r, truckID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, msgTruckNotOwned)
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 本人のトラックでなければ404（存在を隠す）
func (u *TruckUsecase) owned(ctx context.Context, p authz.Principal, truckID int64) (model.Truck, error) {
	if truckID <= 0 {
		return model.Truck{}, NewHTTPError(http.StatusBadRequest, "invalid id")
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

func parseTruckOrderStatus(s string) (model.TruckOrderStatus, error) {
	os := model.TruckOrderStatus(strings.TrimSpace(s))
	if !model.ValidTruckOrderStatus(os) {
		return "", NewHTTPError(http.StatusBadRequest, "Valid orderStatus is required (available or unavailable)")
	}
	return os, nil
}

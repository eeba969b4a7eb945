package usecase

import (
	"context"
	"errors"
	"net/http"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// 追加は常に「同じ商品なら数量加算」の1ルールだけ。
type CartUsecase struct {
	tx    repo.TransactionManager
	carts repo.CartRepository
}

func NewCartUsecase(tx repo.TransactionManager, carts repo.CartRepository) *CartUsecase {
	return &CartUsecase{tx: tx, carts: carts}
}

const msgTruckNotAccepting = "Truck is not accepting orders"

type CartResponse struct {
	CartItems []model.CartLine `json:"cartItems"`
	Total     decimal.Decimal  `json:"total"`
}

type AddCartInput struct {
	MenuItemID int64
	Quantity   int64
}

// GetCart はカート取得（合計は追加時点の価格で計算）
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := u.carts.ListLinesByUser(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return buildCartResponse(lines), nil
}

// AddToCart は追加（別トラックの商品が入っていたら拒否、カートは変えない）
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (model.CartEntry, error) {
	if userID <= 0 {
		return model.CartEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.MenuItemID <= 0 {
		return model.CartEntry{}, NewHTTPError(http.StatusBadRequest, "Valid itemId is required")
	}
	if in.Quantity < 1 {
		return model.CartEntry{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}

	var out model.CartEntry
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品チェック（販売中のみ）
		item, err := r.MenuItems().FindByID(ctx, in.MenuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Menu item not found or unavailable")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !item.IsAvailable() {
			return NewHTTPError(http.StatusNotFound, "Menu item not found or unavailable")
		}

		truck, err := r.Trucks().FindByID(ctx, item.TruckID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Menu item not found or unavailable")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !truck.AcceptsOrders() {
			return NewHTTPError(http.StatusBadRequest, msgTruckNotAccepting)
		}

		//1トラック制約
		truckIDs, err := r.Carts().TruckIDsByUser(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, id := range truckIDs {
			if id != item.TruckID {
				return NewHTTPError(http.StatusBadRequest, "Cannot order from multiple trucks")
			}
		}

		//価格はサーバー側の現在価格を保存
		entry, err := r.Carts().Upsert(ctx, userID, item.ID, in.Quantity, item.Price)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = entry
		return nil
	})
	if err != nil {
		return model.CartEntry{}, err
	}
	return out, nil
}

func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, entryID int64, qty int64) (model.CartEntry, error) {
	if userID <= 0 {
		return model.CartEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if entryID <= 0 {
		return model.CartEntry{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if qty < 1 {
		return model.CartEntry{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}

	entry, err := u.carts.UpdateQuantity(ctx, userID, entryID, qty)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartEntry{}, NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return model.CartEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return entry, nil
}

func (u *CartUsecase) DeleteEntry(ctx context.Context, userID int64, entryID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if entryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.carts.Delete(ctx, userID, entryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.carts.ClearByUser(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func buildCartResponse(lines []model.CartLine) CartResponse {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return CartResponse{CartItems: lines, Total: total}
}

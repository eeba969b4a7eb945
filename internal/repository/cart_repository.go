package repository

import (
	"context"

	"foodtruck/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.CartEntry, error)
	//行ロックつき（注文確定用）
	ListByUserForUpdate(ctx context.Context, userID int64) ([]model.CartEntry, error)
	ListLinesByUser(ctx context.Context, userID int64) ([]model.CartLine, error)
	//カート内のトラックID（空なら0件）
	TruckIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	//同一(user, item)は数量加算、無ければ作成
	Upsert(ctx context.Context, userID int64, itemID int64, addQty int64, price decimal.Decimal) (model.CartEntry, error)
	UpdateQuantity(ctx context.Context, userID int64, entryID int64, qty int64) (model.CartEntry, error)
	Delete(ctx context.Context, userID int64, entryID int64) error
	ClearByUser(ctx context.Context, userID int64) error
	//トラックのメニューを参照している行を全ユーザー分消す
	DeleteByTruck(ctx context.Context, truckID int64) error
}

package repository

import (
	"context"

	"foodtruck/internal/domain/model"
)

type TruckListFilter struct {
	TruckStatus *model.TruckStatus
	OrderStatus *model.TruckOrderStatus
}

// 更新（nilは変更なし）
type TruckPatch struct {
	Name        *string
	Logo        *string
	OrderStatus *model.TruckOrderStatus
}

type TruckRepository interface {
	//truck_nameが重複ならErrConflict
	Create(ctx context.Context, t *model.Truck) error
	FindByID(ctx context.Context, truckID int64) (model.Truck, error)
	List(ctx context.Context, f TruckListFilter) ([]model.Truck, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Truck, error)
	ListWithOwner(ctx context.Context) ([]model.TruckWithOwner, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, truckID int64, p TruckPatch) (model.Truck, error)
	//注文受付も一緒に切り替える
	UpdateTruckStatus(ctx context.Context, truckID int64, ts model.TruckStatus, os model.TruckOrderStatus) error
	//オーナーの全トラックを一括で切り替える
	SetStatusesByOwner(ctx context.Context, ownerID int64, ts model.TruckStatus, os model.TruckOrderStatus) error
	ApprovePendingByOwner(ctx context.Context, ownerID int64) error
	Delete(ctx context.Context, truckID int64) error
}

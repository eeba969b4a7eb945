package repository

import (
	"context"

	"foodtruck/internal/domain/model"

	"github.com/shopspring/decimal"
)

type MenuItemFilter struct {
	TruckID       int64
	Category      string
	OnlyAvailable bool
}

type MenuItemPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Status      *model.MenuItemStatus
}

type MenuItemRepository interface {
	Create(ctx context.Context, m *model.MenuItem) error
	FindByID(ctx context.Context, itemID int64) (model.MenuItem, error)
	FindByIDs(ctx context.Context, itemIDs []int64) (map[int64]model.MenuItem, error)
	List(ctx context.Context, f MenuItemFilter) ([]model.MenuItem, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.MenuItem, error)
	Update(ctx context.Context, itemID int64, p MenuItemPatch) (model.MenuItem, error)
	DeleteByTruck(ctx context.Context, truckID int64) error
}

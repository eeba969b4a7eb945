package repository

import (
	"context"
	"time"

	"foodtruck/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	//トラック名・客の名前つき
	FindViewByID(ctx context.Context, orderID int64) (model.OrderView, error)
	ListViewsByUserID(ctx context.Context, userID int64) ([]model.OrderView, error)
	ListViewsByTruckIDs(ctx context.Context, truckIDs []int64) ([]model.OrderView, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, estimatedPickup *time.Time) error
	//明細ごと消す
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteByTruckID(ctx context.Context, truckID int64) error
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}

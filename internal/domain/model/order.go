package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID                      int64           `gorm:"primaryKey;autoIncrement" json:"orderId"`
	UserID                  int64           `gorm:"not null;index" json:"userId"`
	TruckID                 int64           `gorm:"not null;index" json:"truckId"`
	Status                  OrderStatus     `gorm:"column:order_status;type:varchar(20);not null;index" json:"orderStatus"`
	TotalPrice              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalPrice"`
	ScheduledPickupTime     time.Time       `gorm:"not null" json:"scheduledPickupTime"`
	EstimatedEarliestPickup time.Time       `gorm:"not null" json:"estimatedEarliestPickup"`
	CreatedAt               time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt               time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 一覧・詳細用（trucks / users をjoin）
type OrderView struct {
	Order
	TruckName     string `json:"truckName"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

package model

import "time"

type TruckStatus string

const (
	TruckStatusPending   TruckStatus = "pending"
	TruckStatusAvailable TruckStatus = "available"
	TruckStatusInactive  TruckStatus = "inactive"
)

// 注文受付の状態
type TruckOrderStatus string

const (
	TruckOrderAvailable   TruckOrderStatus = "available"
	TruckOrderUnavailable TruckOrderStatus = "unavailable"
)

type Truck struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"truckId"`
	Name        string           `gorm:"column:truck_name;type:varchar(255);uniqueIndex;not null" json:"truckName"`
	Logo        string           `gorm:"column:truck_logo;type:text" json:"truckLogo"`
	OwnerID     int64            `gorm:"not null;index" json:"ownerId"`
	TruckStatus TruckStatus      `gorm:"type:varchar(20);not null;default:'available';index" json:"truckStatus"`
	OrderStatus TruckOrderStatus `gorm:"type:varchar(20);not null;default:'available'" json:"orderStatus"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 管理画面用（オーナー情報つき）
type TruckWithOwner struct {
	Truck
	OwnerName   string     `json:"ownerName"`
	OwnerEmail  string     `json:"ownerEmail"`
	OwnerStatus UserStatus `json:"ownerStatus"`
}

func ValidTruckOrderStatus(s TruckOrderStatus) bool {
	return s == TruckOrderAvailable || s == TruckOrderUnavailable
}

// 承認済みで停止中でなく、注文受付中
func (t Truck) AcceptsOrders() bool {
	return t.TruckStatus == TruckStatusAvailable && t.OrderStatus == TruckOrderAvailable
}

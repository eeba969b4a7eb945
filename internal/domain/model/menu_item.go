package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItemStatus string

const (
	MenuItemAvailable   MenuItemStatus = "available"
	MenuItemUnavailable MenuItemStatus = "unavailable"
)

// 削除は論理削除（statusをunavailableにする）
type MenuItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"itemId"`
	TruckID     int64           `gorm:"not null;index" json:"truckId"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Status      MenuItemStatus  `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (m MenuItem) IsAvailable() bool {
	return m.Status == MenuItemAvailable
}

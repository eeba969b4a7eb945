package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// priceはメニュー価格から切り離したスナップショット
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"orderItemId"`
	OrderID    int64           `gorm:"not null;index" json:"orderId"`
	MenuItemID int64           `gorm:"not null;index" json:"itemId"`
	ItemName   string          `gorm:"type:varchar(255);not null" json:"itemName"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}

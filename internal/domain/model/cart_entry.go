package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// (user, menu_item)で1行。priceは追加時点のスナップショット
type CartEntry struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"cartId"`
	UserID     int64           `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"userId"`
	MenuItemID int64           `gorm:"not null;uniqueIndex:idx_cart_user_item;index" json:"itemId"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 表示用（menu_itemsをjoinした行）
type CartLine struct {
	ID           int64           `json:"cartId"`
	MenuItemID   int64           `json:"itemId"`
	TruckID      int64           `json:"truckId"`
	ItemName     string          `json:"itemName"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

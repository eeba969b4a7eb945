package model

import (
	"errors"
	"time"
)

// 準備中でもキャンセルできる時間
const CancelWindow = 10 * time.Minute

// 受け取り予定の最短時間
const EarliestPickupLead = 30 * time.Minute

var (
	ErrOrderAlreadyCancelled   = errors.New("Order is already cancelled")
	ErrCancelCompletedOrder    = errors.New("Cannot cancel a completed order")
	ErrCancelReadyOrder        = errors.New("Cannot cancel an order that is ready for pickup")
	ErrCancelWindowExpired     = errors.New("Cannot cancel order after 10 minutes when it is being prepared")
	ErrUpdateCancelledOrder    = errors.New("Cannot update a cancelled order")
	ErrUpdateCompletedOrder    = errors.New("Cannot update a completed order")
	ErrUnknownOrderStatusValue = errors.New("unknown order status")
)

// 進行順（後戻り判定に使う）
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusCompleted: 3,
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// 客側のキャンセル可否。preparingは作成から10分ちょうどまでOK
func (o Order) CanCancel(now time.Time) error {
	switch o.Status {
	case OrderStatusPending:
		return nil
	case OrderStatusPreparing:
		if now.Sub(o.CreatedAt) > CancelWindow {
			return ErrCancelWindowExpired
		}
		return nil
	case OrderStatusReady:
		return ErrCancelReadyOrder
	case OrderStatusCompleted:
		return ErrCancelCompletedOrder
	case OrderStatusCancelled:
		return ErrOrderAlreadyCancelled
	}
	return ErrUnknownOrderStatusValue
}

// オーナー側の更新可否。終端状態からは動かせない
func (o Order) CanUpdateStatus(to OrderStatus) error {
	if !ValidOrderStatus(to) {
		return ErrUnknownOrderStatusValue
	}
	switch o.Status {
	case OrderStatusCancelled:
		return ErrUpdateCancelledOrder
	case OrderStatusCompleted:
		return ErrUpdateCompletedOrder
	}
	return nil
}

// 後戻り（ready -> pendingなど）かどうか。禁止はしない
func IsBackwardTransition(from, to OrderStatus) bool {
	fr, ok1 := orderStatusRank[from]
	tr, ok2 := orderStatusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	return tr < fr
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"foodtruck/internal/domain/model"
	"foodtruck/internal/infra/metrics"
	repo "foodtruck/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	items  repo.OrderItemRepository
	clock  Clock
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, items: items, clock: clock}
}

type PlaceOrderInput struct {
	ScheduledPickupTime time.Time
}

// 注文＋明細
type OrderDetail struct {
	model.OrderView
	Items []model.OrderItem `json:"items"`
}

// PlaceOrder はカートから注文を作る（1トランザクション）
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderDetail, error) {
	if userID <= 0 {
		return OrderDetail{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ScheduledPickupTime.IsZero() {
		return OrderDetail{}, NewHTTPError(http.StatusBadRequest, "scheduledPickupTime is required")
	}

	var out OrderDetail

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート行をロックして読む
		entries, err := r.Carts().ListByUserForUpdate(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(entries) == 0 {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}

		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.MenuItemID)
		}
		menu, err := r.MenuItems().FindByIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//全部同じトラックか
		var truckID int64
		orderItems := make([]model.OrderItem, 0, len(entries))
		total := decimal.Zero
		for _, e := range entries {
			m, ok := menu[e.MenuItemID]
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "Menu item not found or unavailable")
			}
			if truckID == 0 {
				truckID = m.TruckID
			} else if truckID != m.TruckID {
				return NewHTTPError(http.StatusBadRequest, "Cannot order from multiple trucks")
			}

			//スナップショット（カートに入れた時の価格）
			orderItems = append(orderItems, model.OrderItem{
				MenuItemID: e.MenuItemID,
				ItemName:   m.Name,
				Quantity:   e.Quantity,
				Price:      e.Price,
			})
			total = total.Add(e.Price.Mul(decimal.NewFromInt(e.Quantity)))
		}

		//停止中・受付停止のトラックには注文できない
		truck, err := r.Trucks().FindByID(ctx, truckID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "Menu item not found or unavailable")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !truck.AcceptsOrders() {
			return NewHTTPError(http.StatusBadRequest, msgTruckNotAccepting)
		}

		now := u.clock.Now()
		order := model.Order{
			UserID:                  userID,
			TruckID:                 truckID,
			Status:                  model.OrderStatusPending,
			TotalPrice:              total,
			ScheduledPickupTime:     in.ScheduledPickupTime.UTC(),
			EstimatedEarliestPickup: now.Add(model.EarliestPickupLead),
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文できたらカートを空にする
		if err := r.Carts().ClearByUser(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		out = OrderDetail{
			OrderView: model.OrderView{Order: order, TruckName: truck.Name},
			Items:     orderItems,
		}
		return nil
	})
	if err != nil {
		return OrderDetail{}, err
	}

	metrics.RecordOrderPlaced()
	return out, nil
}

// 自分の注文一覧（新しい順、トラック名つき）
func (u *OrderUsecase) ListMine(ctx context.Context, userID int64) ([]model.OrderView, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orders, err := u.orders.ListViewsByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if orders == nil {
		orders = []model.OrderView{}
	}
	return orders, nil
}

// 他人の注文は404
func (u *OrderUsecase) GetMine(ctx context.Context, userID int64, orderID int64) (OrderDetail, error) {
	if userID <= 0 {
		return OrderDetail{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetail{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindViewByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && o.UserID != userID) {
		return OrderDetail{}, NewHTTPError(http.StatusNotFound, "Order not found or does not belong to you")
	}
	if err != nil {
		return OrderDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.items.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderDetail(o, items), nil
}

// Cancel は客によるキャンセル。preparingは作成から10分まで
func (u *OrderUsecase) Cancel(ctx context.Context, userID int64, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && o.UserID != userID) {
			return NewHTTPError(http.StatusNotFound, "Order not found or does not belong to you")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := o.CanCancel(u.clock.Now()); err != nil {
			return NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCancelled, nil); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		o.Status = model.OrderStatusCancelled
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	metrics.RecordOrderStatus(string(model.OrderStatusCancelled))
	return out, nil
}

func toOrderDetail(o model.OrderView, items []model.OrderItem) OrderDetail {
	if items == nil {
		items = []model.OrderItem{}
	}
	return OrderDetail{OrderView: o, Items: items}
}

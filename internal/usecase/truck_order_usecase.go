package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"foodtruck/internal/authz"
	"foodtruck/internal/domain/model"
	"foodtruck/internal/infra/metrics"
	repo "foodtruck/internal/repository"

	"github.com/sirupsen/logrus"
)

// トラックオーナー側の注文管理
type TruckOrderUsecase struct {
	tx     repo.TransactionManager
	trucks repo.TruckRepository
	orders repo.OrderRepository
	items  repo.OrderItemRepository
	log    *logrus.Logger
}

func NewTruckOrderUsecase(
	tx repo.TransactionManager,
	trucks repo.TruckRepository,
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	log *logrus.Logger,
) *TruckOrderUsecase {
	return &TruckOrderUsecase{tx: tx, trucks: trucks, orders: orders, items: items, log: log}
}

type UpdateOrderStatusInput struct {
	Status                  string
	EstimatedEarliestPickup *time.Time
}

const msgOrderNotOnYourTruck = "Order not found or does not belong to your truck"

// オーナーの全トラックの注文
func (u *TruckOrderUsecase) ListForOwner(ctx context.Context, p authz.Principal) ([]OrderDetail, error) {
	if !p.Can(authz.CapManageTruckOrders) {
		return nil, NewHTTPError(http.StatusForbidden, "Access denied. Truck owners only.")
	}

	trucks, err := u.trucks.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	ids := make([]int64, 0, len(trucks))
	for _, t := range trucks {
		ids = append(ids, t.ID)
	}
	return u.listWithItems(ctx, ids)
}

// 1台分の注文（本人のトラックのみ）
func (u *TruckOrderUsecase) ListForTruck(ctx context.Context, p authz.Principal, truckID int64) ([]OrderDetail, error) {
	if truckID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	t, err := u.trucks.FindByID(ctx, truckID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.CanManageTruck(t)) {
		return nil, NewHTTPError(http.StatusNotFound, msgTruckNotOwned)
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.listWithItems(ctx, []int64{t.ID})
}

func (u *TruckOrderUsecase) Get(ctx context.Context, p authz.Principal, orderID int64) (OrderDetail, error) {
	if orderID <= 0 {
		return OrderDetail{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindViewByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderDetail{}, NewHTTPError(http.StatusNotFound, msgOrderNotOnYourTruck)
	}
	if err != nil {
		return OrderDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.checkTruck(ctx, u.trucks, p, o.TruckID); err != nil {
		return OrderDetail{}, err
	}

	items, err := u.items.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetail{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderDetail(o, items), nil
}

// UpdateStatus は completed / cancelled 以外からなら何にでも変更できる。
// 後戻り（ready -> pending など）も通すがwarnで残す。
func (u *TruckOrderUsecase) UpdateStatus(ctx context.Context, p authz.Principal, orderID int64, in UpdateOrderStatusInput) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.OrderStatus(strings.TrimSpace(in.Status))
	if !model.ValidOrderStatus(next) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "Valid orderStatus is required (pending, preparing, ready, completed, cancelled)")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, msgOrderNotOnYourTruck)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := u.checkTruck(ctx, r.Trucks(), p, o.TruckID); err != nil {
			return err
		}

		if err := o.CanUpdateStatus(next); err != nil {
			return NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if model.IsBackwardTransition(o.Status, next) {
			u.log.WithFields(logrus.Fields{
				"order_id": o.ID,
				"truck_id": o.TruckID,
				"from":     o.Status,
				"to":       next,
				"user_id":  p.UserID,
			}).Warn("order status moved backward")
		}

		var eep *time.Time
		if in.EstimatedEarliestPickup != nil {
			v := in.EstimatedEarliestPickup.UTC()
			eep = &v
		}
		if err := r.Orders().UpdateStatus(ctx, o.ID, next, eep); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, msgOrderNotOnYourTruck)
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = next
		if eep != nil {
			o.EstimatedEarliestPickup = *eep
		}
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	metrics.RecordOrderStatus(string(next))
	return out, nil
}

// 注文のトラックが本人のものか（違えば404）
func (u *TruckOrderUsecase) checkTruck(ctx context.Context, trucks repo.TruckRepository, p authz.Principal, truckID int64) error {
	t, err := trucks.FindByID(ctx, truckID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.CanManageTruck(t)) {
		return NewHTTPError(http.StatusNotFound, msgOrderNotOnYourTruck)
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *TruckOrderUsecase) listWithItems(ctx context.Context, truckIDs []int64) ([]OrderDetail, error) {
	if len(truckIDs) == 0 {
		return []OrderDetail{}, nil
	}

	orders, err := u.orders.ListViewsByTruckIDs(ctx, truckIDs)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		items, err := u.items.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderDetail(o, items))
	}
	return outs, nil
}

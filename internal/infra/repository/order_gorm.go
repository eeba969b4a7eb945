package repository

import (
	"context"
	"time"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

// ステータス変更前に行ロック
func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

// orders + trucks + users
func (r *OrderGormRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, trucks.truck_name AS truck_name, users.name AS customer_name, users.email AS customer_email").
		Joins("JOIN trucks ON trucks.id = orders.truck_id").
		Joins("JOIN users ON users.id = orders.user_id")
}

func (r *OrderGormRepository) FindViewByID(ctx context.Context, orderID int64) (model.OrderView, error) {
	var views []model.OrderView
	err := r.viewQuery(ctx).
		Where("orders.id = ?", orderID).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return model.OrderView{}, err
	}
	if len(views) == 0 {
		return model.OrderView{}, repo.ErrNotFound
	}
	return views[0], nil
}

func (r *OrderGormRepository) ListViewsByUserID(ctx context.Context, userID int64) ([]model.OrderView, error) {
	var views []model.OrderView
	err := r.viewQuery(ctx).
		Where("orders.user_id = ?", userID).
		Order("orders.created_at desc, orders.id desc").
		Scan(&views).Error
	if err != nil {
		return []model.OrderView{}, err
	}
	return views, nil
}

func (r *OrderGormRepository) ListViewsByTruckIDs(ctx context.Context, truckIDs []int64) ([]model.OrderView, error) {
	if len(truckIDs) == 0 {
		return []model.OrderView{}, nil
	}

	var views []model.OrderView
	err := r.viewQuery(ctx).
		Where("orders.truck_id IN ?", truckIDs).
		Order("orders.created_at desc, orders.id desc").
		Scan(&views).Error
	if err != nil {
		return []model.OrderView{}, err
	}
	return views, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, estimatedPickup *time.Time) error {
	updates := map[string]interface{}{"order_status": status}
	if estimatedPickup != nil {
		updates["estimated_earliest_pickup"] = *estimatedPickup
	}

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.deleteWhere(ctx, "user_id = ?", userID)
}

func (r *OrderGormRepository) DeleteByTruckID(ctx context.Context, truckID int64) error {
	return r.deleteWhere(ctx, "truck_id = ?", truckID)
}

// 明細→注文の順に消す
func (r *OrderGormRepository) deleteWhere(ctx context.Context, cond string, arg int64) error {
	orderIDs := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("id").
		Where(cond, arg)

	if err := r.db.WithContext(ctx).
		Where("order_id IN (?)", orderIDs).
		Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where(cond, arg).
		Delete(&model.Order{}).Error
}

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// 注文明細一括作成
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

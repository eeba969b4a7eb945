package repository

import (
	"context"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"gorm.io/gorm"
)

type TruckGormRepository struct {
	db *gorm.DB
}

// DI
func NewTruckGormRepository(db *gorm.DB) *TruckGormRepository {
	return &TruckGormRepository{db: db}
}

func (r *TruckGormRepository) Create(ctx context.Context, t *model.Truck) error {
	return translateErr(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TruckGormRepository) FindByID(ctx context.Context, truckID int64) (model.Truck, error) {
	var t model.Truck
	err := r.db.WithContext(ctx).Where("id = ?", truckID).First(&t).Error
	if err != nil {
		return model.Truck{}, translateErr(err)
	}
	return t, nil
}

func (r *TruckGormRepository) List(ctx context.Context, f repo.TruckListFilter) ([]model.Truck, error) {
	q := r.db.WithContext(ctx).Model(&model.Truck{})
	if f.TruckStatus != nil {
		q = q.Where("truck_status = ?", *f.TruckStatus)
	}
	if f.OrderStatus != nil {
		q = q.Where("order_status = ?", *f.OrderStatus)
	}

	var trucks []model.Truck
	if err := q.Order("truck_name asc").Find(&trucks).Error; err != nil {
		return []model.Truck{}, err
	}
	return trucks, nil
}

func (r *TruckGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Truck, error) {
	var trucks []model.Truck
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&trucks).Error
	if err != nil {
		return []model.Truck{}, err
	}
	return trucks, nil
}

func (r *TruckGormRepository) ListWithOwner(ctx context.Context) ([]model.TruckWithOwner, error) {
	var rows []model.TruckWithOwner
	err := r.db.WithContext(ctx).
		Table("trucks").
		Select("trucks.*, users.name AS owner_name, users.email AS owner_email, users.status AS owner_status").
		Joins("JOIN users ON users.id = trucks.owner_id").
		Order("trucks.created_at desc").
		Scan(&rows).Error
	if err != nil {
		return []model.TruckWithOwner{}, err
	}
	return rows, nil
}

// excludeIDは更新時に自分自身を除くため
func (r *TruckGormRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Truck{}).
		Where("truck_name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TruckGormRepository) Update(ctx context.Context, truckID int64, p repo.TruckPatch) (model.Truck, error) {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["truck_name"] = *p.Name
	}
	if p.Logo != nil {
		updates["truck_logo"] = *p.Logo
	}
	if p.OrderStatus != nil {
		updates["order_status"] = *p.OrderStatus
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&model.Truck{}).
			Where("id = ?", truckID).
			Updates(updates)
		if res.Error != nil {
			return model.Truck{}, translateErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return model.Truck{}, repo.ErrNotFound
		}
	}

	return r.FindByID(ctx, truckID)
}

func (r *TruckGormRepository) UpdateTruckStatus(ctx context.Context, truckID int64, ts model.TruckStatus, os model.TruckOrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Truck{}).
		Where("id = ?", truckID).
		Updates(map[string]interface{}{
			"truck_status": ts,
			"order_status": os,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// トラックが0台でもエラーにしない
func (r *TruckGormRepository) SetStatusesByOwner(ctx context.Context, ownerID int64, ts model.TruckStatus, os model.TruckOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Truck{}).
		Where("owner_id = ?", ownerID).
		Updates(map[string]interface{}{
			"truck_status": ts,
			"order_status": os,
		}).Error
}

func (r *TruckGormRepository) ApprovePendingByOwner(ctx context.Context, ownerID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Truck{}).
		Where("owner_id = ? AND truck_status = ?", ownerID, model.TruckStatusPending).
		Update("truck_status", model.TruckStatusAvailable).Error
}

func (r *TruckGormRepository) Delete(ctx context.Context, truckID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Truck{}, truckID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

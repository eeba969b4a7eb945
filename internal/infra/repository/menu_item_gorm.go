package repository

import (
	"context"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"gorm.io/gorm"
)

type MenuItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuItemGormRepository(db *gorm.DB) *MenuItemGormRepository {
	return &MenuItemGormRepository{db: db}
}

func (r *MenuItemGormRepository) Create(ctx context.Context, m *model.MenuItem) error {
	return translateErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *MenuItemGormRepository) FindByID(ctx context.Context, itemID int64) (model.MenuItem, error) {
	var m model.MenuItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&m).Error
	if err != nil {
		return model.MenuItem{}, translateErr(err)
	}
	return m, nil
}

func (r *MenuItemGormRepository) FindByIDs(ctx context.Context, itemIDs []int64) (map[int64]model.MenuItem, error) {
	out := make(map[int64]model.MenuItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (r *MenuItemGormRepository) List(ctx context.Context, f repo.MenuItemFilter) ([]model.MenuItem, error) {
	q := r.db.WithContext(ctx).Model(&model.MenuItem{}).Where("truck_id = ?", f.TruckID)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.OnlyAvailable {
		q = q.Where("status = ?", model.MenuItemAvailable)
	}

	var items []model.MenuItem
	if err := q.Order("category asc, name asc").Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}

// オーナーの全トラックのメニュー
func (r *MenuItemGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.WithContext(ctx).
		Joins("JOIN trucks ON trucks.id = menu_items.truck_id").
		Where("trucks.owner_id = ?", ownerID).
		Order("menu_items.truck_id asc, menu_items.id asc").
		Find(&items).Error
	if err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}

func (r *MenuItemGormRepository) Update(ctx context.Context, itemID int64, p repo.MenuItemPatch) (model.MenuItem, error) {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Category != nil {
		updates["category"] = *p.Category
	}
	if p.Price != nil {
		updates["price"] = *p.Price
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&model.MenuItem{}).
			Where("id = ?", itemID).
			Updates(updates)
		if res.Error != nil {
			return model.MenuItem{}, res.Error
		}
		if res.RowsAffected == 0 {
			return model.MenuItem{}, repo.ErrNotFound
		}
	}

	return r.FindByID(ctx, itemID)
}

// トラック削除時だけ物理削除する
func (r *MenuItemGormRepository) DeleteByTruck(ctx context.Context, truckID int64) error {
	return r.db.WithContext(ctx).
		Where("truck_id = ?", truckID).
		Delete(&model.MenuItem{}).Error
}

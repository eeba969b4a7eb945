package repository

import (
	"context"
	"errors"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) ListByUser(ctx context.Context, userID int64) ([]model.CartEntry, error) {
	var entries []model.CartEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&entries).Error; err != nil {
		return []model.CartEntry{}, err
	}
	return entries, nil
}

// 注文確定中に同じカートを別リクエストが触らないようにロック
func (r *CartGormRepository) ListByUserForUpdate(ctx context.Context, userID int64) ([]model.CartEntry, error) {
	var entries []model.CartEntry
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&entries).Error; err != nil {
		return []model.CartEntry{}, err
	}
	return entries, nil
}

// 表示用：メニューの現在の名前・価格をjoin
func (r *CartGormRepository) ListLinesByUser(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.db.WithContext(ctx).
		Table("cart_entries AS c").
		Select("c.id, c.menu_item_id, m.truck_id, m.name AS item_name, m.price AS current_price, c.price, c.quantity").
		Joins("JOIN menu_items m ON m.id = c.menu_item_id").
		Where("c.user_id = ?", userID).
		Order("c.id asc").
		Scan(&lines).Error
	if err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

func (r *CartGormRepository) TruckIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Table("cart_entries AS c").
		Joins("JOIN menu_items m ON m.id = c.menu_item_id").
		Where("c.user_id = ?", userID).
		Distinct("m.truck_id").
		Pluck("m.truck_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// 同一商品は数量加算
func (r *CartGormRepository) Upsert(ctx context.Context, userID int64, itemID int64, addQty int64, price decimal.Decimal) (model.CartEntry, error) {
	if addQty <= 0 {
		return model.CartEntry{}, errors.New("invalid quantity")
	}

	var entry model.CartEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND menu_item_id = ?", userID, itemID).
		First(&entry).Error

	if err == nil {
		// 既存ありだったら数量を増やす
		res := r.db.WithContext(ctx).
			Model(&model.CartEntry{}).
			Where("id = ?", entry.ID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", addQty))
		if res.Error != nil {
			return model.CartEntry{}, res.Error
		}
		entry.Quantity += addQty
		return entry, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartEntry{}, err
	}

	//無い場合は新規作成
	entry = model.CartEntry{
		UserID:     userID,
		MenuItemID: itemID,
		Quantity:   addQty,
		Price:      price,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return model.CartEntry{}, translateErr(err)
	}
	return entry, nil
}

// 他人の行は「存在しない扱い」
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, userID int64, entryID int64, qty int64) (model.CartEntry, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CartEntry{}).
		Where("id = ? AND user_id = ?", entryID, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return model.CartEntry{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.CartEntry{}, repo.ErrNotFound
	}

	var entry model.CartEntry
	if err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&entry).Error; err != nil {
		return model.CartEntry{}, translateErr(err)
	}
	return entry, nil
}

func (r *CartGormRepository) Delete(ctx context.Context, userID int64, entryID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&model.CartEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) ClearByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartEntry{}).Error
}

func (r *CartGormRepository) DeleteByTruck(ctx context.Context, truckID int64) error {
	items := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Select("id").
		Where("truck_id = ?", truckID)

	return r.db.WithContext(ctx).
		Where("menu_item_id IN (?)", items).
		Delete(&model.CartEntry{}).Error
}

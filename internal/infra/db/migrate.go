package db

import (
	"foodtruck/internal/domain/model"

	"gorm.io/gorm"
)

// テーブル作成（依存の少ない順）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Truck{},
		&model.MenuItem{},
		&model.CartEntry{},
		&model.Order{},
		&model.OrderItem{},
		&model.Session{},
	)
}

// sqliteのインメモリDBを作ってマイグレーションまで済ませる
func OpenInMemory() (*gorm.DB, error) {
	db, err := Connect(Options{Driver: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

package repository

import (
	"context"

	repo "foodtruck/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users      repo.UserRepository
	sessions   repo.SessionRepository
	trucks     repo.TruckRepository
	menuItems  repo.MenuItemRepository
	carts      repo.CartRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func (r *txReposGorm) Users() repo.UserRepository           { return r.users }
func (r *txReposGorm) Sessions() repo.SessionRepository     { return r.sessions }
func (r *txReposGorm) Trucks() repo.TruckRepository         { return r.trucks }
func (r *txReposGorm) MenuItems() repo.MenuItemRepository   { return r.menuItems }
func (r *txReposGorm) Carts() repo.CartRepository           { return r.carts }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }

// 同じ*gorm.DBから作ったrepo一式（Tx外でも使う）
func NewRepos(db *gorm.DB) repo.TxRepos {
	return &txReposGorm{
		users:      NewUserGormRepository(db),
		sessions:   NewSessionGormRepository(db),
		trucks:     NewTruckGormRepository(db),
		menuItems:  NewMenuItemGormRepository(db),
		carts:      NewCartGormRepository(db),
		orders:     NewOrderGormRepository(db),
		orderItems: NewOrderItemGormRepository(db),
	}
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(NewRepos(tx))
	})
}

// Package authz maps roles to capabilities and answers ownership questions
// for a resolved principal.
package authz

import "foodtruck/internal/domain/model"

type Capability string

const (
	// カート操作と自分の注文
	CapShop Capability = "shop"
	// トラック・メニューの管理
	CapManageTrucks Capability = "trucks:manage"
	// 自分のトラックに来た注文の管理
	CapManageTruckOrders Capability = "truck_orders:manage"
	// 管理者機能
	CapAdmin Capability = "admin"
)

var roleCapabilities = map[model.Role]map[Capability]struct{}{
	model.RoleCustomer: {
		CapShop: {},
	},
	model.RoleTruckOwner: {
		CapShop:              {},
		CapManageTrucks:      {},
		CapManageTruckOrders: {},
	},
	model.RoleAdmin: {
		CapAdmin: {},
	},
}

// Principal is the identity resolved from a session.
type Principal struct {
	UserID int64
	Role   model.Role
	Status model.UserStatus
}

func Allows(role model.Role, c Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}

func (p Principal) Can(c Capability) bool {
	if p.UserID <= 0 {
		return false
	}
	return Allows(p.Role, c)
}

// 所有者チェック
func (p Principal) Owns(ownerID int64) bool {
	return p.UserID > 0 && p.UserID == ownerID
}

func (p Principal) OwnsTruck(t model.Truck) bool {
	return p.Owns(t.OwnerID)
}

// トラック管理権限があり、かつ本人のトラック
func (p Principal) CanManageTruck(t model.Truck) bool {
	return p.Can(CapManageTrucks) && p.OwnsTruck(t)
}

func (p Principal) OwnsOrder(o model.Order) bool {
	return p.Owns(o.UserID)
}

package model

import "time"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTruckOwner Role = "truckowner"
	RoleAdmin      Role = "admin"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// roleは作成後に変更しない
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Birthdate    *time.Time `gorm:"type:date" json:"birthdate,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleTruckOwner, RoleAdmin:
		return true
	}
	return false
}

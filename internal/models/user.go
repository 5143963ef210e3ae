package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admin routes require RoleAdmin or RoleSuperAdmin.
const (
	RoleUser       = "user"
	RoleMerchant   = "merchant"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null"`
	Name                string `gorm:"not null"`
	Phone               string `gorm:"uniqueIndex;not null"`
	Role                string `gorm:"default:'user'"`
	Status              string `gorm:"default:'active'"`
	UserGroup           string `gorm:"default:'general';index"`
	Points              int    `gorm:"default:0"`
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int `gorm:"default:1"`
}

// IsAdmin reports whether the user may call admin endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

package domain

import (
	"errors"
	"time"
)

var (
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AdminUser is a console operator credential record
type AdminUser struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	HashedPassword string     `json:"-" gorm:"size:255;not null"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (AdminUser) TableName() string {
	return "admin_users"
}

// Repository defines the contract for admin user data access
type Repository interface {
	Create(admin *AdminUser) error
	FindByUsername(username string) (*AdminUser, error)
	UpdateLastLogin(id uint, when time.Time) error
}

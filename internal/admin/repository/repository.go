package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/admin/domain"
)

type GormAdminRepository struct {
	db *gorm.DB
}

func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.AdminUser{})
}

func (r *GormAdminRepository) Create(admin *domain.AdminUser) error {
	return r.db.Create(admin).Error
}

func (r *GormAdminRepository) FindByUsername(username string) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	err := r.db.Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) UpdateLastLogin(id uint, when time.Time) error {
	return r.db.Model(&domain.AdminUser{}).
		Where("id = ?", id).
		Update("last_login", when).Error
}

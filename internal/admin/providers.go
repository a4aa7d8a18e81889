package admin

import (
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/admin/domain"
	"github.com/acmeshop/storefront/internal/admin/repository"
)

// ProvideAdminRepository provides the admin repository
func ProvideAdminRepository(db *gorm.DB) domain.Repository {
	return repository.NewGormAdminRepository(db)
}

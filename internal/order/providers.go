package order

import (
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/internal/order/repository"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.Repository {
	return repository.NewGormOrderRepository(db)
}

package catalog

import (
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/catalog/repository"
)

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepository(db)
}

// ProvideInventoryRepository provides the inventory ledger with tracing
func ProvideInventoryRepository(db *gorm.DB) domain.InventoryRepository {
	return repository.NewGormInventoryRepositoryWithTracing(db)
}

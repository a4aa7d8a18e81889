//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/catalog/delivery/http"
	"github.com/acmeshop/storefront/internal/catalog/usecase/command"
	"github.com/acmeshop/storefront/internal/catalog/usecase/query"
	"github.com/acmeshop/storefront/pkg/auth"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideInventoryRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeactivateProductHandler,
	command.NewAdjustStockHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetProductHandler,
	query.NewListProductsHandler,
	query.NewStockAlertsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.TokenManager) (*http.CatalogHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewCatalogHandlerWithDI,
	)
	return nil, nil
}

//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/catalog"
	"github.com/acmeshop/storefront/internal/notification"
	"github.com/acmeshop/storefront/internal/order/delivery/http"
	"github.com/acmeshop/storefront/internal/order/usecase/command"
	"github.com/acmeshop/storefront/internal/order/usecase/query"
	"github.com/acmeshop/storefront/internal/payment/dedup"
	"github.com/acmeshop/storefront/internal/payment/provider"
	"github.com/acmeshop/storefront/pkg/auth"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	catalog.ProvideProductRepository,
	catalog.ProvideInventoryRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCheckoutHandler,
	command.NewReconcilePaymentHandler,
	command.NewUpdateOrderHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetOrderHandler,
	query.NewListOrdersHandler,
	query.NewDashboardStatsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.TokenManager, notifier notification.Notifier, shippingCostCAD float64) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewOrderHandler,
	)
	return nil, nil
}

// InitializeWebhookHandler initializes the webhook handler with all dependencies
func InitializeWebhookHandler(db *gorm.DB, verifiers *provider.Registry, events *dedup.Store, notifier notification.Notifier) (*http.WebhookHandler, error) {
	wire.Build(
		ProvideOrderRepository,
		command.NewReconcilePaymentHandler,
		http.NewWebhookHandler,
	)
	return nil, nil
}

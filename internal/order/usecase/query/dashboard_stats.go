package query

import (
	"fmt"

	catalogdomain "github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/order/domain"
)

// DashboardStatsQuery represents the admin dashboard aggregate query
type DashboardStatsQuery struct{}

// DashboardStats is the admin console overview. Revenue sums total_cad over
// orders in paid, processing, shipped, and delivered states.
type DashboardStats struct {
	TotalProducts    int64   `json:"total_products"`
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	PaidOrders       int64   `json:"paid_orders"`
	LowStockProducts int64   `json:"low_stock_products"`
	TotalRevenueCAD  float64 `json:"total_revenue_cad"`
}

// DashboardStatsHandler handles the dashboard stats query
type DashboardStatsHandler struct {
	orders    domain.Repository
	products  catalogdomain.ProductRepository
	inventory catalogdomain.InventoryRepository
}

// NewDashboardStatsHandler creates a new dashboard stats handler
func NewDashboardStatsHandler(
	orders domain.Repository,
	products catalogdomain.ProductRepository,
	inventory catalogdomain.InventoryRepository,
) *DashboardStatsHandler {
	return &DashboardStatsHandler{orders: orders, products: products, inventory: inventory}
}

// Handle executes the dashboard stats query
func (h *DashboardStatsHandler) Handle(q DashboardStatsQuery) (*DashboardStats, error) {
	orderStats, err := h.orders.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	productCount, err := h.products.Count(true)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	lowStock, err := h.inventory.CountLowStock()
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	return &DashboardStats{
		TotalProducts:    productCount,
		TotalOrders:      orderStats.TotalOrders,
		PendingOrders:    orderStats.PendingOrders,
		PaidOrders:       orderStats.PaidOrders,
		LowStockProducts: lowStock,
		TotalRevenueCAD:  orderStats.TotalRevenueCAD,
	}, nil
}

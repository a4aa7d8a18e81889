package query

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// StockAlertsQuery lists products whose stock needs attention
type StockAlertsQuery struct {
	// OutOfStockOnly narrows the listing from low-stock (quantity at or
	// below threshold) to out-of-stock (quantity at or below zero).
	OutOfStockOnly bool
}

// StockAlertsHandler handles stock alert queries
type StockAlertsHandler struct {
	inventory domain.InventoryRepository
}

// NewStockAlertsHandler creates a new stock alerts handler
func NewStockAlertsHandler(inventory domain.InventoryRepository) *StockAlertsHandler {
	return &StockAlertsHandler{inventory: inventory}
}

// Handle executes the stock alerts query
func (h *StockAlertsHandler) Handle(q StockAlertsQuery) ([]domain.StockAlert, error) {
	var alerts []domain.StockAlert
	var err error

	if q.OutOfStockOnly {
		alerts, err = h.inventory.ListOutOfStock()
	} else {
		alerts, err = h.inventory.ListLowStock()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list stock alerts: %w", err)
	}

	return alerts, nil
}

package query

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/order/domain"
)

// ListOrdersQuery pages orders, newest first, optionally filtered by status
type ListOrdersQuery struct {
	Status string
	Limit  int
	Offset int
}

// OrderList is a page of orders with the total count
type OrderList struct {
	Orders []domain.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	orders domain.Repository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders domain.Repository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(q ListOrdersQuery) (*OrderList, error) {
	filter := domain.ListFilter{Limit: q.Limit, Offset: q.Offset}

	if q.Status != "" {
		status, err := domain.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	orders, total, err := h.orders.FindAll(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderList{Orders: orders, Total: total}, nil
}

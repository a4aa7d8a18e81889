package query

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/order/domain"
)

// GetOrderQuery fetches one order by id or by order number
type GetOrderQuery struct {
	ID          uint
	OrderNumber string
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	orders domain.Repository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orders domain.Repository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(q GetOrderQuery) (*domain.Order, error) {
	if q.ID != 0 {
		return h.orders.FindByID(q.ID)
	}
	if q.OrderNumber != "" {
		return h.orders.FindByOrderNumber(q.OrderNumber)
	}
	return nil, fmt.Errorf("order id or order number is required")
}

package query

import (
	"errors"
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID uint
}

// ProductWithStock is a product joined with its stock predicates
type ProductWithStock struct {
	domain.Product
	StockQuantity int  `json:"stock_quantity"`
	IsInStock     bool `json:"is_in_stock"`
	IsLowStock    bool `json:"is_low_stock"`
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	products  domain.ProductRepository
	inventory domain.InventoryRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(products domain.ProductRepository, inventory domain.InventoryRepository) *GetProductHandler {
	return &GetProductHandler{products: products, inventory: inventory}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(q GetProductQuery) (*ProductWithStock, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("invalid product id")
	}

	product, err := h.products.FindByID(q.ID)
	if err != nil {
		return nil, err
	}

	result := &ProductWithStock{Product: *product}

	record, err := h.inventory.FindByProductID(product.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInventoryNotFound) {
			return result, nil
		}
		return nil, err
	}

	result.StockQuantity = record.Quantity
	result.IsInStock = !record.IsOutOfStock()
	result.IsLowStock = record.IsLowStock()
	return result, nil
}

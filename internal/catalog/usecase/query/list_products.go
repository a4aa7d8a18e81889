package query

import (
	"errors"
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductList is a page of products with the total count
type ProductList struct {
	Products []ProductWithStock `json:"products"`
	Total    int64              `json:"total"`
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	products  domain.ProductRepository
	inventory domain.InventoryRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(products domain.ProductRepository, inventory domain.InventoryRepository) *ListProductsHandler {
	return &ListProductsHandler{products: products, inventory: inventory}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(q ListProductsQuery) (*ProductList, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	products, err := h.products.FindAll(q.ActiveOnly, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := h.products.Count(q.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	result := &ProductList{
		Products: make([]ProductWithStock, 0, len(products)),
		Total:    total,
	}

	for _, product := range products {
		entry := ProductWithStock{Product: product}
		record, err := h.inventory.FindByProductID(product.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrInventoryNotFound) {
				return nil, err
			}
		} else {
			entry.StockQuantity = record.Quantity
			entry.IsInStock = !record.IsOutOfStock()
			entry.IsLowStock = record.IsLowStock()
		}
		result.Products = append(result.Products, entry)
	}

	return result, nil
}

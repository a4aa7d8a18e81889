package command

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// CreateProductCommand represents the command to create a new product with
// its initial inventory record
type CreateProductCommand struct {
	Name              string
	Description       string
	PriceCAD          float64
	ImageURL          string
	Specifications    string
	IsActive          bool
	InitialStock      int
	LowStockThreshold int
}

// CreateProductHandler handles product creation
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if cmd.PriceCAD < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if cmd.InitialStock < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative")
	}
	if cmd.LowStockThreshold < 0 {
		return nil, fmt.Errorf("low stock threshold cannot be negative")
	}

	product := &domain.Product{
		Name:           cmd.Name,
		Description:    cmd.Description,
		PriceCAD:       cmd.PriceCAD,
		ImageURL:       cmd.ImageURL,
		Specifications: cmd.Specifications,
		IsActive:       cmd.IsActive,
	}

	threshold := cmd.LowStockThreshold
	if threshold == 0 {
		threshold = domain.DefaultLowStockThreshold
	}

	if err := h.repo.CreateWithInventory(product, cmd.InitialStock, threshold); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

package command

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// UpdateProductCommand carries a partial product update. Only non-nil fields
// overwrite the stored values.
type UpdateProductCommand struct {
	ID             uint
	Name           *string
	Description    *string
	PriceCAD       *float64
	ImageURL       *string
	Specifications *string
	IsActive       *bool
}

// UpdateProductHandler handles product updates
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid product id")
	}

	product, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, fmt.Errorf("product name cannot be empty")
		}
		product.Name = *cmd.Name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.PriceCAD != nil {
		if *cmd.PriceCAD < 0 {
			return nil, fmt.Errorf("price cannot be negative")
		}
		product.PriceCAD = *cmd.PriceCAD
	}
	if cmd.ImageURL != nil {
		product.ImageURL = *cmd.ImageURL
	}
	if cmd.Specifications != nil {
		product.Specifications = *cmd.Specifications
	}
	if cmd.IsActive != nil {
		product.IsActive = *cmd.IsActive
	}

	if err := h.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

package command

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// DeactivateProductCommand represents the command to soft-delete a product
type DeactivateProductCommand struct {
	ID uint
}

// DeactivateProductHandler handles product deactivation. Products are never
// hard-deleted: historical orders reference them.
type DeactivateProductHandler struct {
	repo domain.ProductRepository
}

// NewDeactivateProductHandler creates a new deactivate product handler
func NewDeactivateProductHandler(repo domain.ProductRepository) *DeactivateProductHandler {
	return &DeactivateProductHandler{repo: repo}
}

// Handle executes the deactivate product command
func (h *DeactivateProductHandler) Handle(cmd DeactivateProductCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("invalid product id")
	}
	return h.repo.Deactivate(cmd.ID)
}

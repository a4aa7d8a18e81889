package command

import (
	"fmt"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

// AdjustStockCommand adds to or overwrites a product's stock counter
type AdjustStockCommand struct {
	ProductID uint
	Quantity  int
	// Absolute overwrites the counter instead of incrementing it.
	// This is the admin correction path.
	Absolute bool
}

// AdjustStockHandler handles stock adjustments through the inventory ledger
type AdjustStockHandler struct {
	products  domain.ProductRepository
	inventory domain.InventoryRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(products domain.ProductRepository, inventory domain.InventoryRepository) *AdjustStockHandler {
	return &AdjustStockHandler{products: products, inventory: inventory}
}

// Handle executes the stock adjustment
func (h *AdjustStockHandler) Handle(cmd AdjustStockCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("invalid product id")
	}
	if cmd.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}

	if _, err := h.products.FindByID(cmd.ProductID); err != nil {
		return err
	}

	if cmd.Absolute {
		if err := h.inventory.SetStock(cmd.ProductID, cmd.Quantity); err != nil {
			return fmt.Errorf("failed to set stock: %w", err)
		}
		return nil
	}

	if err := h.inventory.AddStock(cmd.ProductID, cmd.Quantity); err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}
	return nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/notification"
	"github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/pkg/logger"
)

const (
	maxLineQuantity          = 10
	orderNumberRetryAttempts = 3
)

// CartLine is one (product, quantity) position of a checkout request
type CartLine struct {
	ProductID uint
	Quantity  int
}

// CheckoutCommand represents a cart submission
type CheckoutCommand struct {
	Lines         []CartLine
	Address       domain.ShippingAddress
	PaymentMethod domain.PaymentMethod
}

// CheckoutHandler validates a cart against catalog and inventory and creates
// the order, its lines, and the stock deductions as one atomic unit.
type CheckoutHandler struct {
	orders          domain.Repository
	products        catalogdomain.ProductRepository
	inventory       catalogdomain.InventoryRepository
	notifier        notification.Notifier
	shippingCostCAD float64
	now             func() time.Time
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	orders domain.Repository,
	products catalogdomain.ProductRepository,
	inventory catalogdomain.InventoryRepository,
	notifier notification.Notifier,
	shippingCostCAD float64,
) *CheckoutHandler {
	return &CheckoutHandler{
		orders:          orders,
		products:        products,
		inventory:       inventory,
		notifier:        notifier,
		shippingCostCAD: shippingCostCAD,
		now:             time.Now,
	}
}

// Handle executes the checkout
func (h *CheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	if len(cmd.Lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}
	if err := cmd.Address.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParsePaymentMethod(string(cmd.PaymentMethod)); err != nil {
		return nil, err
	}

	// Resolve products, lock prices, and run the advisory stock check.
	// The authoritative gate is the conditional deduction inside the
	// creation transaction.
	var subtotal float64
	lines := make([]domain.OrderLine, 0, len(cmd.Lines))
	for _, line := range cmd.Lines {
		if line.Quantity < 1 || line.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("quantity for product %d must be between 1 and %d", line.ProductID, maxLineQuantity)
		}

		product, err := h.products.FindByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: %s", catalogdomain.ErrProductInactive, product.Name)
		}

		ok, err := h.inventory.CheckStock(product.ID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			available := 0
			if record, err := h.inventory.FindByProductID(product.ID); err == nil {
				available = record.Quantity
			}
			return nil, &catalogdomain.InsufficientStockError{ProductID: product.ID, Available: available}
		}

		subtotal += product.PriceCAD * float64(line.Quantity)
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			PriceCAD:  product.PriceCAD,
		})
	}

	now := h.now()
	order := &domain.Order{
		Status:        domain.StatusPending,
		PaymentMethod: cmd.PaymentMethod,

		CustomerName:  cmd.Address.Name,
		CustomerEmail: cmd.Address.Email,
		CustomerPhone: cmd.Address.Phone,

		ShippingAddressLine1: cmd.Address.Line1,
		ShippingAddressLine2: cmd.Address.Line2,
		ShippingCity:         cmd.Address.City,
		ShippingState:        cmd.Address.State,
		ShippingPostalCode:   cmd.Address.PostalCode,
		ShippingCountry:      cmd.Address.Country,

		SubtotalCAD:     subtotal,
		ShippingCostCAD: h.shippingCostCAD,
		TotalCAD:        subtotal + h.shippingCostCAD,
	}

	// The random suffix makes collisions negligible but not impossible;
	// regenerate instead of failing the customer.
	var err error
	for attempt := 0; attempt < orderNumberRetryAttempts; attempt++ {
		order.OrderNumber = domain.NewOrderNumber(now)
		order.Lines = cloneLines(lines)

		err = h.orders.Create(order)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrOrderNumberCollision) {
			return nil, err
		}
		logger.Warn(ctx).
			Str("order_number", order.OrderNumber).
			Int("attempt", attempt+1).
			Msg("Order number collision, regenerating")
		order.ID = 0
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("order_number", order.OrderNumber).
		Uint("order_id", order.ID).
		Float64("total_cad", order.TotalCAD).
		Int("lines", len(order.Lines)).
		Msg("Order created")

	// Best-effort: a failed notification never fails the checkout
	if h.notifier != nil {
		if err := h.notifier.SendOrderConfirmation(ctx, order); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("order_id", order.ID).
				Msg("Failed to send order confirmation")
		}
	}

	return order, nil
}

func cloneLines(lines []domain.OrderLine) []domain.OrderLine {
	cloned := make([]domain.OrderLine, len(lines))
	copy(cloned, lines)
	return cloned
}

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/acmeshop/storefront/internal/notification"
	"github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/pkg/logger"
)

// UpdateOrderCommand carries an admin order mutation. Nil fields are left
// untouched.
type UpdateOrderCommand struct {
	ID             uint
	Status         *domain.Status
	TrackingNumber *string
}

// UpdateOrderHandler applies manual admin transitions. Status overrides are
// unconstrained; shipped/delivered timestamps are stamped at most once.
type UpdateOrderHandler struct {
	orders   domain.Repository
	notifier notification.Notifier
	now      func() time.Time
}

// NewUpdateOrderHandler creates a new update order handler
func NewUpdateOrderHandler(orders domain.Repository, notifier notification.Notifier) *UpdateOrderHandler {
	return &UpdateOrderHandler{orders: orders, notifier: notifier, now: time.Now}
}

// Handle executes the admin order update
func (h *UpdateOrderHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*domain.Order, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid order id")
	}

	order, err := h.orders.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	shippedNow := false
	if cmd.Status != nil {
		status, err := domain.ParseStatus(string(*cmd.Status))
		if err != nil {
			return nil, err
		}
		shippedNow = status == domain.StatusShipped && order.Status != domain.StatusShipped
		order.ApplyStatusOverride(status, h.now())
	}

	if cmd.TrackingNumber != nil {
		order.TrackingNumber = *cmd.TrackingNumber
	}

	if err := h.orders.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("status", string(order.Status)).
		Str("tracking_number", order.TrackingNumber).
		Msg("Order updated by admin")

	if shippedNow && h.notifier != nil {
		if err := h.notifier.SendShippingNotification(ctx, order); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("order_id", order.ID).
				Msg("Failed to send shipping notification")
		}
	}

	return order, nil
}

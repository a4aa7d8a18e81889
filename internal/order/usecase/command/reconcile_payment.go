package command

import (
	"context"
	"fmt"

	"github.com/acmeshop/storefront/internal/notification"
	"github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/internal/payment/provider"
	"github.com/acmeshop/storefront/pkg/logger"
)

// ReconcilePaymentHandler applies verified payment-provider events to orders.
// Providers redeliver events, so every transition is conditional on the
// current status: a PAID order is never re-transitioned and never regressed.
type ReconcilePaymentHandler struct {
	orders   domain.Repository
	notifier notification.Notifier
}

// NewReconcilePaymentHandler creates a new reconcile payment handler
func NewReconcilePaymentHandler(orders domain.Repository, notifier notification.Notifier) *ReconcilePaymentHandler {
	return &ReconcilePaymentHandler{orders: orders, notifier: notifier}
}

// Handle applies a verified provider event. Unknown event kinds are acked
// and ignored: the provider's catalog is larger than what this system acts on.
func (h *ReconcilePaymentHandler) Handle(ctx context.Context, event provider.Event) error {
	switch event.Kind {
	case provider.EventPaymentSucceeded:
		return h.ConfirmPayment(ctx, event.OrderID, event.TransactionID)
	case provider.EventPaymentFailed:
		return h.cancelPayment(ctx, event.OrderID)
	default:
		logger.Debug(ctx).
			Str("provider", event.Provider).
			Str("event_id", event.EventID).
			Msg("Ignoring unhandled provider event kind")
		return nil
	}
}

// ConfirmPayment transitions pending -> paid and stores the provider
// transaction id. Redelivery of a Succeeded event for an already-PAID order
// is a silent no-op ack. Also the trusted direct-confirm path.
func (h *ReconcilePaymentHandler) ConfirmPayment(ctx context.Context, orderID uint, transactionID string) error {
	transitioned, err := h.orders.MarkPaid(orderID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to confirm payment for order %d: %w", orderID, err)
	}

	if !transitioned {
		order, err := h.orders.FindByID(orderID)
		if err != nil {
			return err
		}
		// Duplicate delivery of a processed event: ack without touching
		// the order
		logger.Info(ctx).
			Uint("order_id", orderID).
			Str("status", string(order.Status)).
			Str("transaction_id", transactionID).
			Msg("Payment confirmation ignored, order already left pending")
		return nil
	}

	logger.Info(ctx).
		Uint("order_id", orderID).
		Str("transaction_id", transactionID).
		Msg("Payment confirmed")

	if h.notifier != nil {
		order, err := h.orders.FindByID(orderID)
		if err == nil {
			if err := h.notifier.SendPaymentConfirmation(ctx, order); err != nil {
				logger.Error(ctx).
					Err(err).
					Uint("order_id", orderID).
					Msg("Failed to send payment confirmation")
			}
		}
	}

	return nil
}

func (h *ReconcilePaymentHandler) cancelPayment(ctx context.Context, orderID uint) error {
	transitioned, err := h.orders.MarkCancelled(orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}

	if !transitioned {
		// A failure event after a confirmed payment must not regress it
		logger.Info(ctx).
			Uint("order_id", orderID).
			Msg("Payment failure ignored, order already left pending")
		return nil
	}

	logger.Info(ctx).
		Uint("order_id", orderID).
		Msg("Order cancelled after payment failure")
	return nil
}

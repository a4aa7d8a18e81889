package kafka

import "time"

// OrderEvent is the notification payload published for order lifecycle
// milestones. The notifier worker turns these into customer emails.
type OrderEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	OrderID        uint      `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	TotalCAD       float64   `json:"total_cad"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderCreated     = "order.created"
	EventTypePaymentConfirmed = "order.payment_confirmed"
	EventTypeOrderShipped     = "order.shipped"
)

// Kafka topics
const (
	TopicOrderEvents = "order-events"
)

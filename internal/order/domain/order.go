package domain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderNumberCollision  = errors.New("order number collision")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
)

// Status is the order lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a status value
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// RevenueStatuses are the states whose orders count toward revenue
var RevenueStatuses = []Status{StatusPaid, StatusProcessing, StatusShipped, StatusDelivered}

// PaymentMethod identifies the payment provider declared at checkout
type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
)

// ParsePaymentMethod validates a payment method value
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodStripe, PaymentMethodPayPal:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

// ShippingAddress is the customer contact and address snapshot copied into
// the order at checkout. It never tracks later profile changes.
type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Line1      string `json:"address_line1"`
	Line2      string `json:"address_line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Validate checks the required address fields
func (a ShippingAddress) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	if a.Email == "" {
		return fmt.Errorf("customer email is required")
	}
	if a.Line1 == "" {
		return fmt.Errorf("address line 1 is required")
	}
	if a.City == "" {
		return fmt.Errorf("city is required")
	}
	if a.State == "" {
		return fmt.Errorf("state is required")
	}
	if a.PostalCode == "" {
		return fmt.Errorf("postal code is required")
	}
	return nil
}

// Order represents a customer purchase
type Order struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	OrderNumber   string        `json:"order_number" gorm:"size:50;uniqueIndex;not null"`
	Status        Status        `json:"status" gorm:"size:20;not null;index;default:'pending'"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"size:20"`
	PaymentID     string        `json:"payment_id" gorm:"size:255;index"`

	CustomerName  string `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail string `json:"customer_email" gorm:"size:255;not null;index"`
	CustomerPhone string `json:"customer_phone" gorm:"size:50"`

	ShippingAddressLine1 string `json:"shipping_address_line1" gorm:"size:255;not null"`
	ShippingAddressLine2 string `json:"shipping_address_line2" gorm:"size:255"`
	ShippingCity         string `json:"shipping_city" gorm:"size:100;not null"`
	ShippingState        string `json:"shipping_state" gorm:"size:100;not null"`
	ShippingPostalCode   string `json:"shipping_postal_code" gorm:"size:20;not null"`
	ShippingCountry      string `json:"shipping_country" gorm:"size:100;not null;default:'Canada'"`

	SubtotalCAD     float64 `json:"subtotal_cad" gorm:"not null"`
	ShippingCostCAD float64 `json:"shipping_cost_cad" gorm:"not null"`
	TotalCAD        float64 `json:"total_cad" gorm:"not null"`

	TrackingNumber string     `json:"tracking_number" gorm:"size:100"`
	ShippedAt      *time.Time `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines []OrderLine `json:"lines" gorm:"foreignKey:OrderID"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderLine is a single product position within an order. The price is
// captured at order time and never tracks later catalog changes.
type OrderLine struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	PriceCAD  float64   `json:"price_cad" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (OrderLine) TableName() string {
	return "order_lines"
}

// SubtotalCAD derives the line subtotal from its frozen inputs
func (l OrderLine) SubtotalCAD() float64 {
	return float64(l.Quantity) * l.PriceCAD
}

// NewOrderNumber generates a human-readable order number of the form
// ORD-<YYYYMMDD>-<8 hex chars>. Uniqueness is enforced by the database
// index; a collision is retried by the checkout handler.
func NewOrderNumber(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(id[:4])))
}

// ApplyStatusOverride sets the status from the admin console. Transitions are
// intentionally unconstrained so operational mistakes can be corrected, but
// shipment and delivery timestamps are stamped at most once.
func (o *Order) ApplyStatusOverride(status Status, now time.Time) {
	o.Status = status
	switch status {
	case StatusShipped:
		if o.ShippedAt == nil {
			t := now
			o.ShippedAt = &t
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			t := now
			o.DeliveredAt = &t
		}
	}
}

// ListFilter narrows and pages order listings
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Stats is the admin dashboard aggregate
type Stats struct {
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	PaidOrders      int64   `json:"paid_orders"`
	TotalRevenueCAD float64 `json:"total_revenue_cad"`
}

// Repository defines the contract for order data access
type Repository interface {
	// Create persists the order, its lines, and the inventory deductions
	// for every line in a single transaction.
	Create(order *Order) error
	FindByID(id uint) (*Order, error)
	FindByOrderNumber(orderNumber string) (*Order, error)
	FindAll(filter ListFilter) ([]Order, int64, error)
	Update(order *Order) error

	// MarkPaid transitions pending -> paid and stores the provider
	// transaction id in one conditional statement. It reports whether the
	// row actually transitioned.
	MarkPaid(id uint, transactionID string) (bool, error)

	// MarkCancelled transitions pending -> cancelled conditionally.
	MarkCancelled(id uint) (bool, error)

	Stats() (*Stats, error)
}

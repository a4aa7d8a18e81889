package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInventoryNotFound = errors.New("inventory record not found")
)

// InsufficientStockError reports a deduction that exceeds availability,
// carrying the quantity still available so callers can surface it.
type InsufficientStockError struct {
	ProductID uint
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available", e.ProductID, e.Available)
}

// Product represents a catalog product
type Product struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null;index"`
	Description    string    `json:"description" gorm:"type:text"`
	PriceCAD       float64   `json:"price_cad" gorm:"not null"`
	ImageURL       string    `json:"image_url"`
	Specifications string    `json:"specifications" gorm:"type:text"`
	IsActive       bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// InventoryRecord tracks per-product stock. Quantity is mutated only through
// the InventoryRepository operations so the stock predicates stay consistent
// with the stored counter.
type InventoryRecord struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	ProductID         uint      `json:"product_id" gorm:"not null;uniqueIndex"`
	Quantity          int       `json:"quantity" gorm:"not null;default:0"`
	LowStockThreshold int       `json:"low_stock_threshold" gorm:"not null;default:5"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// DefaultLowStockThreshold is used when stock is added for a product that has
// no inventory record yet.
const DefaultLowStockThreshold = 5

// IsLowStock reports whether stock is at or below the alert threshold
func (r *InventoryRecord) IsLowStock() bool {
	return r.Quantity <= r.LowStockThreshold
}

// IsOutOfStock reports whether the product has no sellable stock
func (r *InventoryRecord) IsOutOfStock() bool {
	return r.Quantity <= 0
}

// StockAlert is a low/out-of-stock listing entry
type StockAlert struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"low_stock_threshold"`
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(product *Product) error
	CreateWithInventory(product *Product, initialStock, lowStockThreshold int) error
	FindByID(id uint) (*Product, error)
	FindAll(activeOnly bool, limit, offset int) ([]Product, error)
	Update(product *Product) error
	Deactivate(id uint) error
	Count(activeOnly bool) (int64, error)
}

// InventoryRepository is the inventory ledger: every stock mutation goes
// through it as a whole operation, never as a raw field write.
type InventoryRepository interface {
	FindByProductID(productID uint) (*InventoryRecord, error)
	CheckStock(productID uint, quantity int) (bool, error)
	DeductStock(productID uint, quantity int) error
	AddStock(productID uint, quantity int) error
	SetStock(productID uint, quantity int) error
	ListLowStock() ([]StockAlert, error)
	ListOutOfStock() ([]StockAlert, error)
	CountLowStock() (int64, error)
}

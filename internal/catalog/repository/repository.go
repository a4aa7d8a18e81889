package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.InventoryRecord{})
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

// CreateWithInventory creates the product and its inventory record in one
// transaction so a product never exists without a stock counter.
func (r *GormProductRepository) CreateWithInventory(product *domain.Product, initialStock, lowStockThreshold int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		record := &domain.InventoryRecord{
			ProductID:         product.ID,
			Quantity:          initialStock,
			LowStockThreshold: lowStockThreshold,
		}
		return tx.Create(record).Error
	})
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(activeOnly bool, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	query := r.db.Limit(limit).Offset(offset)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(product *domain.Product) error {
	return r.db.Save(product).Error
}

// Deactivate soft-deletes a product. The row is never removed because orders
// keep referencing it.
func (r *GormProductRepository) Deactivate(id uint) error {
	res := r.db.Model(&domain.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Count(activeOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&domain.Product{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryRecord{})
}

func (r *GormInventoryRepository) FindByProductID(productID uint) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	err := r.db.Where("product_id = ?", productID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, err
	}
	return &record, nil
}

// CheckStock is advisory: it reports availability at read time. DeductStock
// is the authoritative gate.
func (r *GormInventoryRepository) CheckStock(productID uint, quantity int) (bool, error) {
	record, err := r.FindByProductID(productID)
	if err != nil {
		if errors.Is(err, domain.ErrInventoryNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Quantity >= quantity, nil
}

// DeductStock decrements stock with a conditional single-statement update so
// two concurrent deductions of the last unit cannot both succeed.
func (r *GormInventoryRepository) DeductStock(productID uint, quantity int) error {
	return deductStock(r.db, productID, quantity)
}

// deductStock runs the conditional decrement on the given handle, which may
// be a transaction. Exported to the order repository via DeductStockTx.
func deductStock(db *gorm.DB, productID uint, quantity int) error {
	res := db.Model(&domain.InventoryRecord{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing record from insufficient stock
		var record domain.InventoryRecord
		if err := db.Where("product_id = ?", productID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInventoryNotFound
			}
			return err
		}
		return &domain.InsufficientStockError{ProductID: productID, Available: record.Quantity}
	}
	return nil
}

// DeductStockTx runs the same conditional decrement inside the caller's
// transaction. Used by the order repository so checkout deductions commit or
// roll back together with the order rows.
func DeductStockTx(tx *gorm.DB, productID uint, quantity int) error {
	return deductStock(tx, productID, quantity)
}

// AddStock increments stock, creating the record with the default threshold
// if it does not exist yet.
func (r *GormInventoryRepository) AddStock(productID uint, quantity int) error {
	res := r.db.Model(&domain.InventoryRecord{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		record := &domain.InventoryRecord{
			ProductID:         productID,
			Quantity:          quantity,
			LowStockThreshold: domain.DefaultLowStockThreshold,
		}
		return r.db.Create(record).Error
	}
	return nil
}

// SetStock overwrites the counter. Admin correction path.
func (r *GormInventoryRepository) SetStock(productID uint, quantity int) error {
	res := r.db.Model(&domain.InventoryRecord{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		record := &domain.InventoryRecord{
			ProductID:         productID,
			Quantity:          quantity,
			LowStockThreshold: domain.DefaultLowStockThreshold,
		}
		return r.db.Create(record).Error
	}
	return nil
}

func (r *GormInventoryRepository) ListLowStock() ([]domain.StockAlert, error) {
	return r.listAlerts("inventory_records.quantity <= inventory_records.low_stock_threshold")
}

func (r *GormInventoryRepository) ListOutOfStock() ([]domain.StockAlert, error) {
	return r.listAlerts("inventory_records.quantity <= 0")
}

func (r *GormInventoryRepository) listAlerts(condition string) ([]domain.StockAlert, error) {
	var alerts []domain.StockAlert
	err := r.db.Model(&domain.InventoryRecord{}).
		Select("inventory_records.product_id, products.name AS product_name, inventory_records.quantity, inventory_records.low_stock_threshold AS threshold").
		Joins("JOIN products ON products.id = inventory_records.product_id").
		Where("products.is_active = ?", true).
		Where(condition).
		Scan(&alerts).Error
	return alerts, err
}

func (r *GormInventoryRepository) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&domain.InventoryRecord{}).
		Joins("JOIN products ON products.id = inventory_records.product_id").
		Where("products.is_active = ?", true).
		Where("inventory_records.quantity <= inventory_records.low_stock_threshold").
		Count(&count).Error
	return count, err
}

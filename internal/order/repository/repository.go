package repository

import (
	"errors"

	"gorm.io/gorm"

	catalogrepo "github.com/acmeshop/storefront/internal/catalog/repository"
	"github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/pkg/database"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.OrderLine{})
}

// Create persists the order header, its lines, and the inventory deduction
// for every line as one atomic unit. Any failing step rolls back the whole
// checkout: partial orders are never visible to readers.
//
// The per-line deduction is the conditional decrement from the inventory
// ledger, so a race between the advisory stock check and this transaction
// surfaces as InsufficientStockError and aborts everything.
func (r *GormOrderRepository) Create(order *domain.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := catalogrepo.DeductStockTx(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrOrderNumberCollision
		}
		return err
	}
	return nil
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Lines").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByOrderNumber(orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Lines").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(filter domain.ListFilter) ([]domain.Order, int64, error) {
	query := r.db.Model(&domain.Order{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var orders []domain.Order
	err := query.Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) Update(order *domain.Order) error {
	return r.db.Omit("Lines").Save(order).Error
}

// MarkPaid applies the pending -> paid transition and stores the provider
// transaction id in a single conditional statement. A stale redelivery can
// never transition an order that already left pending.
func (r *GormOrderRepository) MarkPaid(id uint, transactionID string) (bool, error) {
	res := r.db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":     domain.StatusPaid,
			"payment_id": transactionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkCancelled applies the pending -> cancelled transition conditionally so
// a late failure event never regresses a confirmed payment.
func (r *GormOrderRepository) MarkCancelled(id uint) (bool, error) {
	res := r.db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Update("status", domain.StatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormOrderRepository) Stats() (*domain.Stats, error) {
	stats := &domain.Stats{}

	if err := r.db.Model(&domain.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.Order{}).
		Where("status = ?", domain.StatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.Order{}).
		Where("status = ?", domain.StatusPaid).
		Count(&stats.PaidOrders).Error; err != nil {
		return nil, err
	}

	var revenue struct{ Total float64 }
	if err := r.db.Model(&domain.Order{}).
		Select("COALESCE(SUM(total_cad), 0) AS total").
		Where("status IN ?", domain.RevenueStatuses).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenueCAD = revenue.Total

	return stats, nil
}

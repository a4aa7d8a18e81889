package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/catalog/domain"
)

var tracer = otel.Tracer("inventory-ledger")

// GormInventoryRepositoryWithTracing wraps GormInventoryRepository with tracing
type GormInventoryRepositoryWithTracing struct {
	*GormInventoryRepository
}

// NewGormInventoryRepositoryWithTracing creates a new ledger with tracing
func NewGormInventoryRepositoryWithTracing(db *gorm.DB) *GormInventoryRepositoryWithTracing {
	return &GormInventoryRepositoryWithTracing{
		GormInventoryRepository: NewGormInventoryRepository(db),
	}
}

// DeductStockWithContext records the conditional decrement as a span
func (r *GormInventoryRepositoryWithTracing) DeductStockWithContext(ctx context.Context, productID uint, quantity int) error {
	_, span := tracer.Start(ctx, "ledger.DeductStock",
		trace.WithAttributes(
			attribute.Int("inventory.product_id", int(productID)),
			attribute.Int("inventory.quantity", quantity),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.DeductStock(productID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "stock deducted")
	return nil
}

// AddStockWithContext records the increment as a span
func (r *GormInventoryRepositoryWithTracing) AddStockWithContext(ctx context.Context, productID uint, quantity int) error {
	_, span := tracer.Start(ctx, "ledger.AddStock",
		trace.WithAttributes(
			attribute.Int("inventory.product_id", int(productID)),
			attribute.Int("inventory.quantity", quantity),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.AddStock(productID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// FindByProductIDWithContext records the lookup as a span
func (r *GormInventoryRepositoryWithTracing) FindByProductIDWithContext(ctx context.Context, productID uint) (*domain.InventoryRecord, error) {
	_, span := tracer.Start(ctx, "ledger.FindByProductID",
		trace.WithAttributes(
			attribute.Int("inventory.product_id", int(productID)),
		),
	)
	defer span.End()

	record, err := r.GormInventoryRepository.FindByProductID(productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("inventory.quantity", record.Quantity),
		attribute.Int("inventory.low_stock_threshold", record.LowStockThreshold),
	)
	return record, nil
}

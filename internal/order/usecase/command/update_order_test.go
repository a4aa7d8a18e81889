package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acmeshop/storefront/internal/order/domain"
)

func updateFixture(t *testing.T) (*UpdateOrderHandler, *mockOrderRepo, *mockNotifier, uint) {
	t.Helper()

	orders := newMockOrderRepo(nil)
	order := &domain.Order{
		OrderNumber: "ORD-20250314-ABCDEF01",
		Status:      domain.StatusPaid,
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}

	notifier := &mockNotifier{}
	handler := NewUpdateOrderHandler(orders, notifier)
	return handler, orders, notifier, order.ID
}

func statusPtr(s domain.Status) *domain.Status { return &s }
func stringPtr(s string) *string               { return &s }

func TestUpdateOrderShipsWithTracking(t *testing.T) {
	handler, orders, notifier, id := updateFixture(t)

	order, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:             id,
		Status:         statusPtr(domain.StatusShipped),
		TrackingNumber: stringPtr("CP123456789CA"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if order.Status != domain.StatusShipped {
		t.Errorf("status = %s, want shipped", order.Status)
	}
	if order.TrackingNumber != "CP123456789CA" {
		t.Errorf("tracking number = %q", order.TrackingNumber)
	}
	if order.ShippedAt == nil {
		t.Error("shipped_at must be stamped on first transition to shipped")
	}
	if notifier.shippingSends != 1 {
		t.Errorf("shipping notifications = %d, want 1", notifier.shippingSends)
	}

	stored, _ := orders.FindByID(id)
	if stored.ShippedAt == nil {
		t.Error("shipped_at not persisted")
	}
}

func TestUpdateOrderShippedAtStampedOnce(t *testing.T) {
	handler, orders, notifier, id := updateFixture(t)

	first, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:     id,
		Status: statusPtr(domain.StatusShipped),
	})
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	firstStamp := *first.ShippedAt

	// Bounce the order out of shipped and back in
	if _, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:     id,
		Status: statusPtr(domain.StatusProcessing),
	}); err != nil {
		t.Fatalf("intermediate update failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	second, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:     id,
		Status: statusPtr(domain.StatusShipped),
	})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if !second.ShippedAt.Equal(firstStamp) {
		t.Errorf("shipped_at overwritten: %v -> %v", firstStamp, second.ShippedAt)
	}

	stored, _ := orders.FindByID(id)
	if !stored.ShippedAt.Equal(firstStamp) {
		t.Errorf("persisted shipped_at overwritten: %v", stored.ShippedAt)
	}

	// Each fresh transition into shipped notifies; re-stamping does not happen
	if notifier.shippingSends != 2 {
		t.Errorf("shipping notifications = %d, want 2", notifier.shippingSends)
	}
}

func TestUpdateOrderTrackingOnlyLeavesStatus(t *testing.T) {
	handler, orders, notifier, id := updateFixture(t)

	order, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:             id,
		TrackingNumber: stringPtr("CP987654321CA"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if order.Status != domain.StatusPaid {
		t.Errorf("status = %s, want paid", order.Status)
	}
	if notifier.shippingSends != 0 {
		t.Error("no shipping notification without a shipped transition")
	}

	stored, _ := orders.FindByID(id)
	if stored.TrackingNumber != "CP987654321CA" {
		t.Errorf("tracking number not persisted: %q", stored.TrackingNumber)
	}
}

func TestUpdateOrderRejectsInvalidStatus(t *testing.T) {
	handler, _, _, id := updateFixture(t)

	_, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:     id,
		Status: statusPtr("refunded"),
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateOrderUnknownOrder(t *testing.T) {
	handler, _, _, _ := updateFixture(t)

	_, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:     999,
		Status: statusPtr(domain.StatusPaid),
	})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestUpdateOrderDeliveredStampsDeliveredAt(t *testing.T) {
	handler, _, _, id := updateFixture(t)

	order, err := handler.Handle(context.Background(), UpdateOrderCommand{
		ID:     id,
		Status: statusPtr(domain.StatusDelivered),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if order.DeliveredAt == nil {
		t.Error("delivered_at must be stamped on transition to delivered")
	}
}

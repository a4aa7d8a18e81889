package command

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	catalogdomain "github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/order/domain"
)

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:       "Jordan Tremblay",
		Email:      "jordan@example.com",
		Line1:      "123 Rue Principale",
		City:       "Montreal",
		State:      "QC",
		PostalCode: "H2X 1Y4",
		Country:    "Canada",
	}
}

func checkoutFixture(t *testing.T) (*CheckoutHandler, *mockOrderRepo, *mockInventoryRepo, *mockNotifier) {
	t.Helper()

	products := newMockProductRepo(
		&catalogdomain.Product{ID: 1, Name: "Noise-Cancelling Headphones", PriceCAD: 549.99, IsActive: true},
		&catalogdomain.Product{ID: 2, Name: "Mechanical Keyboard", PriceCAD: 189.50, IsActive: true},
		&catalogdomain.Product{ID: 3, Name: "Discontinued Webcam", PriceCAD: 99.00, IsActive: false},
	)
	inventory := newMockInventoryRepo()
	inventory.SetStock(1, 10)
	inventory.SetStock(2, 4)
	orders := newMockOrderRepo(inventory)
	notifier := &mockNotifier{}

	handler := NewCheckoutHandler(orders, products, inventory, notifier, 15.00)
	return handler, orders, inventory, notifier
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	handler, _, inventory, notifier := checkoutFixture(t)

	order, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines: []CartLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if order.Status != domain.StatusPending {
		t.Errorf("expected status pending, got %s", order.Status)
	}
	if order.OrderNumber == "" {
		t.Error("expected order number to be assigned")
	}

	wantSubtotal := 2*549.99 + 189.50
	if math.Abs(order.SubtotalCAD-wantSubtotal) > 0.001 {
		t.Errorf("subtotal = %v, want %v", order.SubtotalCAD, wantSubtotal)
	}
	if math.Abs(order.TotalCAD-(wantSubtotal+15.00)) > 0.001 {
		t.Errorf("total = %v, want %v", order.TotalCAD, wantSubtotal+15.00)
	}

	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.Lines[0].PriceCAD != 549.99 {
		t.Errorf("line price not frozen at order time: %v", order.Lines[0].PriceCAD)
	}

	// Stock was deducted for both lines
	if got := inventory.quantity(1); got != 8 {
		t.Errorf("product 1 stock = %d, want 8", got)
	}
	if got := inventory.quantity(2); got != 3 {
		t.Errorf("product 2 stock = %d, want 3", got)
	}

	if notifier.orderConfirms != 1 {
		t.Errorf("expected 1 order confirmation, got %d", notifier.orderConfirms)
	}
}

func TestCheckoutSnapshotsCustomerAndAddress(t *testing.T) {
	handler, orders, _, _ := checkoutFixture(t)

	created, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 1, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	stored, err := orders.FindByID(created.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.CustomerName != "Jordan Tremblay" || stored.CustomerEmail != "jordan@example.com" {
		t.Errorf("customer snapshot missing: %+v", stored)
	}
	if stored.ShippingCity != "Montreal" || stored.ShippingPostalCode != "H2X 1Y4" {
		t.Errorf("address snapshot missing: %+v", stored)
	}
	if stored.PaymentMethod != domain.PaymentMethodPayPal {
		t.Errorf("payment method = %s, want paypal", stored.PaymentMethod)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	handler, _, _, _ := checkoutFixture(t)

	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestCheckoutRejectsBadQuantities(t *testing.T) {
	handler, _, inventory, _ := checkoutFixture(t)

	for _, quantity := range []int{0, -1, 11} {
		_, err := handler.Handle(context.Background(), CheckoutCommand{
			Lines:         []CartLine{{ProductID: 1, Quantity: quantity}},
			Address:       validAddress(),
			PaymentMethod: domain.PaymentMethodStripe,
		})
		if err == nil {
			t.Errorf("quantity %d: expected error", quantity)
		}
	}

	if got := inventory.quantity(1); got != 10 {
		t.Errorf("stock must be untouched by rejected carts, got %d", got)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	handler, _, _, _ := checkoutFixture(t)

	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 1, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: "bitcoin",
	})
	if !errors.Is(err, domain.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestCheckoutRejectsUnknownProduct(t *testing.T) {
	handler, _, _, _ := checkoutFixture(t)

	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 99, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if !errors.Is(err, catalogdomain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCheckoutRejectsInactiveProduct(t *testing.T) {
	handler, _, _, _ := checkoutFixture(t)

	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 3, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if !errors.Is(err, catalogdomain.ErrProductInactive) {
		t.Errorf("expected ErrProductInactive, got %v", err)
	}
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	handler, _, _, _ := checkoutFixture(t)

	// Product 2 has 4 units
	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 2, Quantity: 5}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})

	var stockErr *catalogdomain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductID != 2 || stockErr.Available != 4 {
		t.Errorf("unexpected error detail: %+v", stockErr)
	}
}

func TestCheckoutFailedLineLeavesOtherStockUntouched(t *testing.T) {
	handler, orders, inventory, _ := checkoutFixture(t)

	// First line is coverable, second is not. Nothing may be deducted.
	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines: []CartLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 5},
		},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if err == nil {
		t.Fatal("expected checkout to fail")
	}

	if got := inventory.quantity(1); got != 10 {
		t.Errorf("product 1 stock = %d, want 10", got)
	}
	if got := inventory.quantity(2); got != 4 {
		t.Errorf("product 2 stock = %d, want 4", got)
	}

	if _, total, _ := orders.FindAll(domain.ListFilter{}); total != 0 {
		t.Errorf("no order may be persisted, found %d", total)
	}
}

func TestCheckoutLastUnitGoesToExactlyOneBuyer(t *testing.T) {
	handler, orders, inventory, _ := checkoutFixture(t)
	inventory.SetStock(1, 1)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), CheckoutCommand{
				Lines:         []CartLine{{ProductID: 1, Quantity: 1}},
				Address:       validAddress(),
				PaymentMethod: domain.PaymentMethodStripe,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, stockFailures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr *catalogdomain.InsufficientStockError
		if errors.As(err, &stockErr) {
			stockFailures++
		} else {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || stockFailures != 1 {
		t.Errorf("got %d successes and %d stock failures, want exactly 1 of each", successes, stockFailures)
	}
	if got := inventory.quantity(1); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
	if _, total, _ := orders.FindAll(domain.ListFilter{}); total != 1 {
		t.Errorf("persisted orders = %d, want 1", total)
	}
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	handler, orders, _, _ := checkoutFixture(t)
	orders.failCreateWith(domain.ErrOrderNumberCollision, domain.ErrOrderNumberCollision)

	order, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 1, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatalf("checkout should survive collisions: %v", err)
	}
	if orders.createCalls != 3 {
		t.Errorf("create calls = %d, want 3", orders.createCalls)
	}
	if order.ID == 0 {
		t.Error("expected order id to be assigned on the successful attempt")
	}
}

func TestCheckoutGivesUpAfterRepeatedCollisions(t *testing.T) {
	handler, orders, _, _ := checkoutFixture(t)
	orders.failCreateWith(
		domain.ErrOrderNumberCollision,
		domain.ErrOrderNumberCollision,
		domain.ErrOrderNumberCollision,
	)

	_, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 1, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if !errors.Is(err, domain.ErrOrderNumberCollision) {
		t.Errorf("expected ErrOrderNumberCollision after exhausting retries, got %v", err)
	}
}

func TestCheckoutSucceedsWhenNotificationFails(t *testing.T) {
	handler, orders, _, notifier := checkoutFixture(t)
	notifier.err = errors.New("broker unavailable")

	order, err := handler.Handle(context.Background(), CheckoutCommand{
		Lines:         []CartLine{{ProductID: 1, Quantity: 1}},
		Address:       validAddress(),
		PaymentMethod: domain.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatalf("notification failure must not fail checkout: %v", err)
	}

	if _, err := orders.FindByID(order.ID); err != nil {
		t.Errorf("order not persisted: %v", err)
	}
}

package command

import (
	"context"
	"sync"

	catalogdomain "github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/order/domain"
)

// mockProductRepo is an in-memory product repository
type mockProductRepo struct {
	mu       sync.Mutex
	products map[uint]*catalogdomain.Product
}

func newMockProductRepo(products ...*catalogdomain.Product) *mockProductRepo {
	repo := &mockProductRepo{products: make(map[uint]*catalogdomain.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *mockProductRepo) Create(product *catalogdomain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *mockProductRepo) CreateWithInventory(product *catalogdomain.Product, initialStock, lowStockThreshold int) error {
	return r.Create(product)
}

func (r *mockProductRepo) FindByID(id uint) (*catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *mockProductRepo) FindAll(activeOnly bool, limit, offset int) ([]catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalogdomain.Product
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (r *mockProductRepo) Update(product *catalogdomain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *mockProductRepo) Deactivate(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	product.IsActive = false
	return nil
}

func (r *mockProductRepo) Count(activeOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		count++
	}
	return count, nil
}

// mockInventoryRepo is an in-memory inventory ledger
type mockInventoryRepo struct {
	mu         sync.Mutex
	stock      map[uint]int
	thresholds map[uint]int
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{
		stock:      make(map[uint]int),
		thresholds: make(map[uint]int),
	}
}

func (r *mockInventoryRepo) FindByProductID(productID uint) (*catalogdomain.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quantity, ok := r.stock[productID]
	if !ok {
		return nil, catalogdomain.ErrInventoryNotFound
	}
	threshold := r.thresholds[productID]
	if threshold == 0 {
		threshold = catalogdomain.DefaultLowStockThreshold
	}
	return &catalogdomain.InventoryRecord{
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}, nil
}

func (r *mockInventoryRepo) CheckStock(productID uint, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stock[productID] >= quantity, nil
}

func (r *mockInventoryRepo) DeductStock(productID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deductLocked(productID, quantity)
}

func (r *mockInventoryRepo) deductLocked(productID uint, quantity int) error {
	available, ok := r.stock[productID]
	if !ok {
		return catalogdomain.ErrInventoryNotFound
	}
	if available < quantity {
		return &catalogdomain.InsufficientStockError{ProductID: productID, Available: available}
	}
	r.stock[productID] = available - quantity
	return nil
}

func (r *mockInventoryRepo) AddStock(productID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[productID] += quantity
	return nil
}

func (r *mockInventoryRepo) SetStock(productID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[productID] = quantity
	return nil
}

func (r *mockInventoryRepo) ListLowStock() ([]catalogdomain.StockAlert, error) {
	return nil, nil
}

func (r *mockInventoryRepo) ListOutOfStock() ([]catalogdomain.StockAlert, error) {
	return nil, nil
}

func (r *mockInventoryRepo) CountLowStock() (int64, error) {
	return 0, nil
}

func (r *mockInventoryRepo) quantity(productID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stock[productID]
}

// mockOrderRepo is an in-memory order repository. Create mirrors the real
// repository's transaction: it deducts stock for every line conditionally and
// leaves the ledger untouched when any line cannot be covered.
type mockOrderRepo struct {
	mu          sync.Mutex
	inventory   *mockInventoryRepo
	orders      map[uint]*domain.Order
	nextID      uint
	createErrs  []error
	createCalls int
}

func newMockOrderRepo(inventory *mockInventoryRepo) *mockOrderRepo {
	return &mockOrderRepo{
		inventory: inventory,
		orders:    make(map[uint]*domain.Order),
	}
}

// failCreateWith queues errors returned by successive Create calls before the
// normal path resumes.
func (r *mockOrderRepo) failCreateWith(errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErrs = append(r.createErrs, errs...)
}

func (r *mockOrderRepo) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++

	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		return err
	}

	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return domain.ErrOrderNumberCollision
		}
	}

	if r.inventory != nil {
		r.inventory.mu.Lock()
		for _, line := range order.Lines {
			available := r.inventory.stock[line.ProductID]
			if available < line.Quantity {
				r.inventory.mu.Unlock()
				return &catalogdomain.InsufficientStockError{ProductID: line.ProductID, Available: available}
			}
		}
		for _, line := range order.Lines {
			r.inventory.stock[line.ProductID] -= line.Quantity
		}
		r.inventory.mu.Unlock()
	}

	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *mockOrderRepo) FindByID(id uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *mockOrderRepo) FindByOrderNumber(orderNumber string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *mockOrderRepo) FindAll(filter domain.ListFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Order
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		result = append(result, *order)
	}
	return result, int64(len(result)), nil
}

func (r *mockOrderRepo) Update(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *mockOrderRepo) MarkPaid(id uint, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return false, nil
	}
	if order.Status != domain.StatusPending {
		return false, nil
	}
	order.Status = domain.StatusPaid
	order.PaymentID = transactionID
	return true, nil
}

func (r *mockOrderRepo) MarkCancelled(id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return false, nil
	}
	if order.Status != domain.StatusPending {
		return false, nil
	}
	order.Status = domain.StatusCancelled
	return true, nil
}

func (r *mockOrderRepo) Stats() (*domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.Stats{}
	for _, order := range r.orders {
		stats.TotalOrders++
		switch order.Status {
		case domain.StatusPending:
			stats.PendingOrders++
		case domain.StatusPaid:
			stats.PaidOrders++
		}
		for _, s := range domain.RevenueStatuses {
			if order.Status == s {
				stats.TotalRevenueCAD += order.TotalCAD
				break
			}
		}
	}
	return stats, nil
}

// mockNotifier records notification sends per type
type mockNotifier struct {
	mu            sync.Mutex
	orderConfirms int
	paymentSends  int
	shippingSends int
	err           error
}

func (n *mockNotifier) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orderConfirms++
	return n.err
}

func (n *mockNotifier) SendPaymentConfirmation(ctx context.Context, order *domain.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paymentSends++
	return n.err
}

func (n *mockNotifier) SendShippingNotification(ctx context.Context, order *domain.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shippingSends++
	return n.err
}

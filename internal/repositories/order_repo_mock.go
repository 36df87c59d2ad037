package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[primitive.ObjectID]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[primitive.ObjectID]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

// GetForCustomer returns an order only if the customer owns it.
func (r *MockOrderRepository) GetForCustomer(_ context.Context, id, customerID primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.CustomerID != customerID {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// GetContainingProducts returns an order only if it holds one of the products.
func (r *MockOrderRepository) GetContainingProducts(_ context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || !containsAnyProduct(order, productIDs) {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *MockOrderRepository) ListByCustomer(_ context.Context, customerID primitive.ObjectID, filter OrderFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginateOrders(r.collect(func(o models.Order) bool {
		return o.CustomerID == customerID
	}), filter)
}

// ListContainingProducts returns orders holding any of the products, newest first.
func (r *MockOrderRepository) ListContainingProducts(_ context.Context, productIDs []primitive.ObjectID, filter OrderFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginateOrders(r.collect(func(o models.Order) bool {
		return containsAnyProduct(o, productIDs)
	}), filter)
}

// Save replaces an existing order.
func (r *MockOrderRepository) Save(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return ErrOrderNotFound
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

func (r *MockOrderRepository) collect(match func(models.Order) bool) []models.Order {
	var orders []models.Order
	for _, o := range r.orders {
		if match(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func containsAnyProduct(order models.Order, productIDs []primitive.ObjectID) bool {
	for _, item := range order.Items {
		for _, pid := range productIDs {
			if item.ProductID == pid {
				return true
			}
		}
	}
	return false
}

func paginateOrders(orders []models.Order, filter OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" {
		filtered := orders[:0:0]
		for _, o := range orders {
			if string(o.OrderStatus) == filter.Status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	total := int64(len(orders))
	page, limit := normalizePage(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= total {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return orders[start:end], total, nil
}

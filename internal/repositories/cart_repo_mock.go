package repositories

import (
	"context"
	"sync"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[primitive.ObjectID]models.Cart // keyed by customer ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[primitive.ObjectID]models.Cart),
	}
}

// GetByCustomer returns the customer's cart.
func (r *MockCartRepository) GetByCustomer(_ context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[customerID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// GetForCustomer returns a cart by ID only if the customer owns it.
func (r *MockCartRepository) GetForCustomer(_ context.Context, id, customerID primitive.ObjectID) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[customerID]
	if !ok || cart.ID != id {
		return nil, ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// Save upserts the cart keyed by customer.
func (r *MockCartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	r.carts[cart.CustomerID] = *cloneCart(*cart)
	return nil
}

func cloneCart(cart models.Cart) *models.Cart {
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return &cart
}

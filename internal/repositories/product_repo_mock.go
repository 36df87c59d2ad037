package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[primitive.ObjectID]models.Product),
	}
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// List returns products matching the filter in insertion order.
func (r *MockProductRepository) List(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	for _, id := range r.order {
		p := r.products[id]
		if filter.SellerID != nil && p.SellerID != *filter.SellerID {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	page, limit := normalizePage(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// IDsBySeller returns the IDs of every product owned by the seller.
func (r *MockProductRepository) IDsBySeller(_ context.Context, sellerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []primitive.ObjectID
	for _, id := range r.order {
		if r.products[id].SellerID == sellerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// Save replaces an existing product.
func (r *MockProductRepository) Save(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// DecrementStock subtracts quantity, failing if the remaining stock is short.
func (r *MockProductRepository) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	if product.Stock < quantity {
		return ErrInsufficientStock
	}
	product.Stock -= quantity
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

// IncrementStock adds quantity back to the product's stock.
func (r *MockProductRepository) IncrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	product.Stock += quantity
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

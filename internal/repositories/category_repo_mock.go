package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[primitive.ObjectID]models.Category
	order      []primitive.ObjectID
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[primitive.ObjectID]models.Category),
	}
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &category, nil
}

// GetByName returns a category by its exact name.
func (r *MockCategoryRepository) GetByName(_ context.Context, name string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, c := range r.categories {
		if c.Name == name {
			category := c
			return &category, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// List returns categories matching the filter in insertion order.
func (r *MockCategoryRepository) List(_ context.Context, filter CategoryFilter) ([]models.Category, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Category
	for _, id := range r.order {
		c := r.categories[id]
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, c)
	}

	total := int64(len(matched))
	page, limit := normalizePage(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= total {
		return []models.Category{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Create adds a new category, rejecting duplicate names.
func (r *MockCategoryRepository) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.TrimSpace(category.Name)
	for _, c := range r.categories {
		if c.Name == name {
			return ErrCategoryDuplicate
		}
	}

	now := time.Now()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.Name = name
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	r.order = append(r.order, category.ID)
	return nil
}

// Save replaces an existing category.
func (r *MockCategoryRepository) Save(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return ErrCategoryNotFound
	}
	category.UpdatedAt = time.Now()
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category by its ID.
func (r *MockCategoryRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.categories, id)
	for i, cid := range r.order {
		if cid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

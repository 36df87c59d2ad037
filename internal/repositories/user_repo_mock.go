package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[primitive.ObjectID]models.User
	order []primitive.ObjectID
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[primitive.ObjectID]models.User),
	}
}

// Create adds a new account.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

// List returns accounts matching the filter in insertion order.
func (r *MockUserRepository) List(_ context.Context, filter UserFilter) ([]models.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.User
	for _, id := range r.order {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(u.Email, search) {
				continue
			}
		}
		matched = append(matched, u)
	}

	total := int64(len(matched))
	page, limit := normalizePage(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= total {
		return []models.User{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// GetByEmail returns an account by its email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID returns an account by its ID.
func (r *MockUserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Save replaces an existing account.
func (r *MockUserRepository) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// Delete removes an account by its ID.
func (r *MockUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

package repositories

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryDuplicate = errors.New("category already exists")
)

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Search string
	Page   int64
	Limit  int64
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]models.Category, int64, error)
	Create(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

package repositories

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status string
	Page   int64
	Limit  int64
}

// OrderRepository defines the interface for order data access. Orders are
// never deleted; mutable fields are written back through Save.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// GetForCustomer scopes the lookup to orders owned by the customer.
	GetForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Order, error)
	// GetContainingProducts scopes the lookup to orders holding at least one
	// of the given products (seller visibility rule).
	GetContainingProducts(ctx context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID, filter OrderFilter) ([]models.Order, int64, error)
	ListContainingProducts(ctx context.Context, productIDs []primitive.ObjectID, filter OrderFilter) ([]models.Order, int64, error)
	Save(ctx context.Context, order *models.Order) error
}

package repositories

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository defines the interface for cart data access. A customer has
// at most one cart; line merging and quantity rules live in the service.
type CartRepository interface {
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error)
	// GetForCustomer loads a specific cart only if it is owned by the customer.
	GetForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Cart, error)
	// Save upserts the whole cart document and stamps UpdatedAt.
	Save(ctx context.Context, cart *models.Cart) error
}

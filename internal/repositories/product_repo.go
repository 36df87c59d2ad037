package repositories

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned by the conditional decrement when the
	// product's remaining stock is below the requested quantity at write time.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows List results. Zero values mean "no filter";
// Page/Limit of zero fall back to the repository defaults.
type ProductFilter struct {
	SellerID   *primitive.ObjectID
	CategoryID *primitive.ObjectID
	Search     string
	Page       int64
	Limit      int64
}

// ProductRepository defines the interface for product data access.
// Stock invariants live in the service layer except for DecrementStock,
// which is the storage-level conditional update closing the race between
// the stock check and the deduction.
type ProductRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	IDsBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]primitive.ObjectID, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock atomically subtracts quantity from the product's stock,
	// failing with ErrInsufficientStock if stock < quantity at write time.
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	// IncrementStock adds quantity back; used to compensate a failed placement.
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

package repositories

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = errors.New("user not found")

// UserFilter narrows List results. Zero values mean "no filter";
// Page/Limit of zero fall back to the repository defaults.
type UserFilter struct {
	Role   string
	Search string
	Page   int64
	Limit  int64
}

// UserRepository defines the interface for account data access. All roles
// share one collection; the role discriminator is set once at registration.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

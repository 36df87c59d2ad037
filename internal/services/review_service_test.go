package services_test

import (
	"context"
	"testing"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/cache"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reviewFixture struct {
	productRepo *repositories.MockProductRepository
	userRepo    *repositories.MockUserRepository
	service     *services.ReviewService
	redis       *miniredis.Miniredis
}

func newReviewFixture(t *testing.T, withCache bool) *reviewFixture {
	t.Helper()
	f := &reviewFixture{
		productRepo: repositories.NewMockProductRepository(),
		userRepo:    repositories.NewMockUserRepository(),
	}

	var c cache.Cache
	if withCache {
		f.redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
		c = cache.NewRedisCache(client)
	}
	f.service = services.NewReviewService(f.productRepo, f.userRepo, c)
	return f
}

func (f *reviewFixture) seedProduct(t *testing.T) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     "Laptop",
		Price:    1200,
		Stock:    10,
		SellerID: primitive.NewObjectID(),
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))
	return product
}

func (f *reviewFixture) seedCustomer(t *testing.T, name string) *models.User {
	t.Helper()
	customer := &models.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  models.RoleCustomer,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), customer))
	return customer
}

func TestReviewService_AddProductReview_RatingIsMean(t *testing.T) {
	f := newReviewFixture(t, false)
	ctx := context.Background()
	product := f.seedProduct(t)
	alice := f.seedCustomer(t, "alice")
	bob := f.seedCustomer(t, "bob")

	review, err := f.service.AddProductReview(ctx, product.ID.Hex(), alice.ID.Hex(), 4, "solid machine")
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Name)
	assert.Equal(t, 4, review.Rating)

	_, err = f.service.AddProductReview(ctx, product.ID.Hex(), bob.ID.Hex(), 5, "excellent")
	require.NoError(t, err)

	saved, err := f.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Reviews, 2)
	assert.Equal(t, 4.5, saved.Rating)

	// A third rating shifts the mean again.
	carol := f.seedCustomer(t, "carol")
	_, err = f.service.AddProductReview(ctx, product.ID.Hex(), carol.ID.Hex(), 3, "okay")
	require.NoError(t, err)

	saved, err = f.productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, saved.Rating)
}

func TestReviewService_AddProductReview_Validation(t *testing.T) {
	f := newReviewFixture(t, false)
	ctx := context.Background()
	product := f.seedProduct(t)
	customer := f.seedCustomer(t, "alice")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.service.AddProductReview(ctx, product.ID.Hex(), customer.ID.Hex(), rating, "text")
		assert.True(t, apperr.IsKind(err, apperr.Validation), "rating %d", rating)
	}

	_, err := f.service.AddProductReview(ctx, product.ID.Hex(), customer.ID.Hex(), 4, "   ")
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = f.service.AddProductReview(ctx, primitive.NewObjectID().Hex(), customer.ID.Hex(), 4, "text")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = f.service.AddProductReview(ctx, product.ID.Hex(), primitive.NewObjectID().Hex(), 4, "text")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestReviewService_GetProductReviews_CacheFlow(t *testing.T) {
	f := newReviewFixture(t, true)
	ctx := context.Background()
	product := f.seedProduct(t)
	customer := f.seedCustomer(t, "alice")

	_, err := f.service.AddProductReview(ctx, product.ID.Hex(), customer.ID.Hex(), 5, "great")
	require.NoError(t, err)

	reviews, err := f.service.GetProductReviews(ctx, product.ID.Hex())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)

	// The write refreshed the cache, so reads survive the store losing the
	// product until the entry expires.
	require.NoError(t, f.productRepo.Delete(ctx, product.ID))
	reviews, err = f.service.GetProductReviews(ctx, product.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	// Once expired, the read falls through to the store and misses.
	f.redis.FastForward(11 * time.Minute)
	_, err = f.service.GetProductReviews(ctx, product.ID.Hex())
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestReviewService_GetProductReviews_NoCache(t *testing.T) {
	f := newReviewFixture(t, false)
	ctx := context.Background()
	product := f.seedProduct(t)

	// Empty review list, not nil, for a product with no reviews yet.
	reviews, err := f.service.GetProductReviews(ctx, product.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)

	_, err = f.service.GetProductReviews(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

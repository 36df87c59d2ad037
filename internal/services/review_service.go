package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/cache"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"golang.org/x/sync/singleflight"
)

// reviewCacheTTL bounds the staleness of cached review lists. Reviews are
// append-mostly, so a stale count within this window is an accepted tradeoff.
const reviewCacheTTL = 10 * time.Minute

// ReviewService appends customer reviews to products and keeps the running
// average rating consistent with the review list.
type ReviewService struct {
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	cache       cache.Cache // optional; nil behaves as a permanent miss
	sfg         singleflight.Group
}

// NewReviewService creates a new ReviewService.
func NewReviewService(productRepo repositories.ProductRepository, userRepo repositories.UserRepository, c cache.Cache) *ReviewService {
	return &ReviewService{
		productRepo: productRepo,
		userRepo:    userRepo,
		cache:       c,
	}
}

// AddProductReview appends a review and recomputes the product's rating as
// the mean over all reviews including the new one.
func (s *ReviewService) AddProductReview(ctx context.Context, productID, customerID string, rating int, comment string) (*models.Review, error) {
	prodID, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.New(apperr.Validation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, apperr.New(apperr.Validation, "comment cannot be empty")
	}

	product, err := s.productRepo.GetByID(ctx, prodID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load product")
	}

	customer, err := s.userRepo.GetByID(ctx, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "customer not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load customer")
	}

	review := models.Review{
		CustomerID: custID,
		Name:       customer.Name,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}
	product.Reviews = append(product.Reviews, review)

	var sum int
	for _, r := range product.Reviews {
		sum += r.Rating
	}
	product.Rating = float64(sum) / float64(len(product.Reviews))

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to save review")
	}

	s.cacheReviews(ctx, prodID.Hex(), product.Reviews)

	return &review, nil
}

// GetProductReviews returns the product's reviews, cache-first with a
// 10-minute freshness window. Concurrent misses for the same product are
// collapsed through singleflight.
func (s *ReviewService) GetProductReviews(ctx context.Context, productID string) ([]models.Review, error) {
	prodID, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}

	v, err, _ := s.sfg.Do(prodID.Hex(), func() (interface{}, error) {
		if reviews, ok := s.cachedReviews(ctx, prodID.Hex()); ok {
			return reviews, nil
		}

		product, err := s.productRepo.GetByID(ctx, prodID)
		if err != nil {
			if errors.Is(err, repositories.ErrProductNotFound) {
				return nil, apperr.New(apperr.NotFound, "product not found")
			}
			return nil, apperr.Wrap(err, apperr.Internal, "failed to load product")
		}

		reviews := product.Reviews
		if reviews == nil {
			reviews = []models.Review{}
		}
		s.cacheReviews(ctx, prodID.Hex(), reviews)
		return reviews, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Review), nil
}

func (s *ReviewService) cachedReviews(ctx context.Context, productID string) ([]models.Review, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, reviewCacheKey(productID))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("Warning: review cache read skipped: %v", err)
		}
		return nil, false
	}
	var reviews []models.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		log.Printf("Warning: review cache entry unreadable: %v", err)
		return nil, false
	}
	return reviews, true
}

func (s *ReviewService) cacheReviews(ctx context.Context, productID string, reviews []models.Review) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(reviews)
	if err != nil {
		log.Printf("Warning: failed to marshal reviews for cache: %v", err)
		return
	}
	if err := s.cache.Set(ctx, reviewCacheKey(productID), data, reviewCacheTTL); err != nil {
		log.Printf("Warning: review cache write skipped: %v", err)
	}
}

func reviewCacheKey(productID string) string {
	return fmt.Sprintf("product:%s:reviews", productID)
}

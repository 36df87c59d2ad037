package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles the product review endpoints.
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers the review routes on the public products group.
// Posting a review requires a customer token, so the auth middleware is
// applied per-route.
func (h *ReviewHandler) RegisterRoutes(products fiber.Router, customerAuth fiber.Handler) {
	products.Get("/:id/reviews", h.HandleGetReviews)
	products.Post("/:id/reviews", customerAuth, h.HandleAddReview)
}

// AddReviewRequest represents the request body for posting a review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// HandleAddReview appends a review and recomputes the product rating.
func (h *ReviewHandler) HandleAddReview(c *fiber.Ctx) error {
	var req AddReviewRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	review, err := h.reviewService.AddProductReview(c.Context(), c.Params("id"), identity(c), req.Rating, req.Comment)
	if err != nil {
		return Fail(c, err)
	}
	return Created(c, "review added", review)
}

// HandleGetReviews returns a product's reviews, served from cache when warm.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewService.GetProductReviews(c.Context(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "reviews fetched", reviews)
}

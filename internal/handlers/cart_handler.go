package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the customer cart endpoints.
type CartHandler struct {
	cartService *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers the cart routes on the customer group.
func (h *CartHandler) RegisterRoutes(customer fiber.Router) {
	cart := customer.Group("/cart")
	cart.Get("/", h.HandleGetCart)
	cart.Post("/", h.HandleAddItem)
	cart.Put("/:itemId", h.HandleUpdateItem)
	cart.Delete("/:itemId", h.HandleRemoveItem)
}

// AddCartItemRequest represents the request body for adding a cart line.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds a product to the cart, merging quantities when the
// product already has a line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	view, err := h.cartService.AddItem(c.Context(), identity(c), req.ProductID, req.Quantity)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "item added to cart", view)
}

// UpdateCartItemRequest represents the request body for changing a line quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// HandleUpdateItem sets the quantity of an existing cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateCartItemRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	view, err := h.cartService.UpdateItemQuantity(c.Context(), identity(c), c.Params("itemId"), req.Quantity)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "cart item updated", view)
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	view, err := h.cartService.RemoveItem(c.Context(), identity(c), c.Params("itemId"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "cart item removed", view)
}

// HandleGetCart returns the populated cart, or an empty cart shape when
// the customer has none yet.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.cartService.GetCart(c.Context(), identity(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "cart fetched", view)
}

package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles the customer and seller order endpoints.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterCustomerRoutes registers the order routes on the customer group.
func (h *OrderHandler) RegisterCustomerRoutes(customer fiber.Router) {
	orders := customer.Group("/orders")
	orders.Post("/", h.HandlePlaceOrder)
	orders.Get("/", h.HandleCustomerOrders)
	orders.Get("/:id", h.HandleCustomerOrder)
	orders.Put("/:id/cancel", h.HandleCancelOrder)
	orders.Get("/:id/track", h.HandleTrackOrder)
}

// RegisterSellerRoutes registers the order routes on the seller group.
func (h *OrderHandler) RegisterSellerRoutes(seller fiber.Router) {
	orders := seller.Group("/orders")
	orders.Get("/", h.HandleSellerOrders)
	orders.Get("/:id", h.HandleSellerOrder)
	orders.Put("/:id/status", h.HandleUpdateStatus)
}

// HandlePlaceOrder converts the customer's cart into an order, reserving
// stock for every line.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var input services.PlaceOrderInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	summary, err := h.orderService.PlaceOrder(c.Context(), identity(c), input)
	if err != nil {
		return Fail(c, err)
	}
	return Created(c, "order placed successfully", summary)
}

// HandleCustomerOrders lists the customer's orders, newest first.
func (h *OrderHandler) HandleCustomerOrders(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.orderService.GetCustomerOrders(c.Context(), identity(c), page, limit, c.Query("status"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "orders fetched", view)
}

// HandleCustomerOrder returns a single order owned by the customer.
func (h *OrderHandler) HandleCustomerOrder(c *fiber.Ctx) error {
	view, err := h.orderService.GetCustomerOrderByID(c.Context(), identity(c), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "order fetched", view)
}

// CancelOrderRequest represents the optional cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// HandleCancelOrder cancels an order that has not shipped yet.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	var req CancelOrderRequest
	// The body is optional here, so parse errors fall back to the default reason.
	_ = c.BodyParser(&req)

	view, err := h.orderService.CancelCustomerOrder(c.Context(), identity(c), c.Params("id"), req.Reason)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "order cancelled", view)
}

// HandleTrackOrder returns the progression timeline of an order.
func (h *OrderHandler) HandleTrackOrder(c *fiber.Ctx) error {
	view, err := h.orderService.TrackCustomerOrder(c.Context(), identity(c), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "order tracking fetched", view)
}

// HandleSellerOrders lists orders containing at least one of the seller's products.
func (h *OrderHandler) HandleSellerOrders(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.orderService.GetSellerOrders(c.Context(), identity(c), page, limit, c.Query("status"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "orders fetched", view)
}

// HandleSellerOrder returns a single order scoped to the seller's products.
func (h *OrderHandler) HandleSellerOrder(c *fiber.Ctx) error {
	view, err := h.orderService.GetSellerOrderByID(c.Context(), identity(c), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "order fetched", view)
}

// UpdateOrderStatusRequest represents the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus advances an order along its status lifecycle.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	view, err := h.orderService.UpdateSellerOrderStatus(c.Context(), identity(c), c.Params("id"), req.Status)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "order status updated", view)
}

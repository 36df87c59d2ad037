package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles the customer payment endpoint.
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers the payment routes on the customer group.
func (h *PaymentHandler) RegisterRoutes(customer fiber.Router) {
	customer.Post("/payments", h.HandleMakePayment)
}

// HandleMakePayment settles an unpaid order and returns a receipt.
func (h *PaymentHandler) HandleMakePayment(c *fiber.Ctx) error {
	var input services.PaymentInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	receipt, err := h.paymentService.MakePayment(c.Context(), identity(c), input)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "payment successful", receipt)
}

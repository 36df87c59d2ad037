package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"github.com/google/uuid"
)

// PaymentService reconciles a claimed payment against an order's expected
// amount. Payment capture is simulated; no gateway is involved.
type PaymentService struct {
	orderRepo repositories.OrderRepository
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(orderRepo repositories.OrderRepository) *PaymentService {
	return &PaymentService{orderRepo: orderRepo}
}

// PaymentInput is the customer's payment request.
type PaymentInput struct {
	OrderID       string  `json:"orderId" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

// PaymentReceipt is the settlement record returned on success.
type PaymentReceipt struct {
	ReceiptID     string     `json:"receiptId"`
	OrderID       string     `json:"orderId"`
	PaymentMethod string     `json:"paymentMethod"`
	Amount        float64    `json:"amount"`
	PaymentStatus string     `json:"paymentStatus"`
	PaidAt        *time.Time `json:"paidAt"`
}

// MakePayment settles an order. The amount must equal the order total
// exactly; an order already Paid is a conflict, which is the guard against
// double settlement.
func (s *PaymentService) MakePayment(ctx context.Context, customerID string, input PaymentInput) (*PaymentReceipt, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	ordID, err := parseID(input.OrderID, "order")
	if err != nil {
		return nil, err
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return nil, apperr.Newf(apperr.Validation, "invalid payment method: %s", input.PaymentMethod)
	}
	if input.Amount <= 0 {
		return nil, apperr.New(apperr.Validation, "invalid amount")
	}

	order, err := s.orderRepo.GetForCustomer(ctx, ordID, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load order")
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperr.New(apperr.Conflict, "order already paid")
	}
	if order.TotalAmount != input.Amount {
		return nil, apperr.Newf(apperr.Validation, "payment amount mismatch, expected %.2f", order.TotalAmount)
	}

	now := time.Now()
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentMethod = input.PaymentMethod
	order.PaymentID = newPaymentID()
	order.PaidAt = &now

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to record payment")
	}

	return &PaymentReceipt{
		ReceiptID:     order.PaymentID,
		OrderID:       order.ID.Hex(),
		PaymentMethod: order.PaymentMethod,
		Amount:        order.TotalAmount,
		PaymentStatus: order.PaymentStatus,
		PaidAt:        order.PaidAt,
	}, nil
}

// newPaymentID generates an opaque payment reference.
func newPaymentID() string {
	fragment := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return "PAY_" + strings.ToUpper(fragment)
}

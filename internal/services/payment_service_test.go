package services_test

import (
	"context"
	"strings"
	"testing"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUnpaidOrder(t *testing.T, repo *repositories.MockOrderRepository, customerID primitive.ObjectID, total float64) *models.Order {
	t.Helper()
	order := &models.Order{
		CustomerID:    customerID,
		TotalAmount:   total,
		PaymentMethod: "ONLINE",
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusPlaced,
		Items: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), Name: "Laptop", Price: total, Quantity: 1},
		},
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestPaymentService_MakePayment(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	paymentService := services.NewPaymentService(orderRepo)
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	order := seedUnpaidOrder(t, orderRepo, customerID, 1200)

	receipt, err := paymentService.MakePayment(ctx, customerID.Hex(), services.PaymentInput{
		OrderID:       order.ID.Hex(),
		PaymentMethod: "CARD",
		Amount:        1200,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, receipt.PaymentStatus)
	assert.Equal(t, 1200.0, receipt.Amount)
	assert.True(t, strings.HasPrefix(receipt.ReceiptID, "PAY_"), receipt.ReceiptID)
	assert.Len(t, receipt.ReceiptID, len("PAY_")+8)
	assert.NotNil(t, receipt.PaidAt)

	// The stored order carries the settlement.
	saved, err := orderRepo.GetForCustomer(ctx, order.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, saved.PaymentStatus)
	assert.Equal(t, "CARD", saved.PaymentMethod)
	assert.Equal(t, receipt.ReceiptID, saved.PaymentID)
}

func TestPaymentService_MakePayment_DoubleSettlement(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	paymentService := services.NewPaymentService(orderRepo)
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	order := seedUnpaidOrder(t, orderRepo, customerID, 500)
	input := services.PaymentInput{
		OrderID:       order.ID.Hex(),
		PaymentMethod: "UPI",
		Amount:        500,
	}

	first, err := paymentService.MakePayment(ctx, customerID.Hex(), input)
	require.NoError(t, err)

	// The second attempt must fail without touching the settlement record.
	_, err = paymentService.MakePayment(ctx, customerID.Hex(), input)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Contains(t, err.Error(), "already paid")

	saved, err := orderRepo.GetForCustomer(ctx, order.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, first.ReceiptID, saved.PaymentID)
	assert.Equal(t, first.PaidAt.Unix(), saved.PaidAt.Unix())
}

func TestPaymentService_MakePayment_AmountMismatch(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	paymentService := services.NewPaymentService(orderRepo)
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	order := seedUnpaidOrder(t, orderRepo, customerID, 999.99)

	_, err := paymentService.MakePayment(ctx, customerID.Hex(), services.PaymentInput{
		OrderID:       order.ID.Hex(),
		PaymentMethod: "ONLINE",
		Amount:        1000,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Contains(t, err.Error(), "expected 999.99")

	// Still unpaid.
	saved, err := orderRepo.GetForCustomer(ctx, order.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, saved.PaymentStatus)
}

func TestPaymentService_MakePayment_Scoping(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	paymentService := services.NewPaymentService(orderRepo)
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	order := seedUnpaidOrder(t, orderRepo, customerID, 100)

	// Another customer cannot pay for it.
	_, err := paymentService.MakePayment(ctx, primitive.NewObjectID().Hex(), services.PaymentInput{
		OrderID:       order.ID.Hex(),
		PaymentMethod: "ONLINE",
		Amount:        100,
	})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	// Unknown payment method.
	_, err = paymentService.MakePayment(ctx, customerID.Hex(), services.PaymentInput{
		OrderID:       order.ID.Hex(),
		PaymentMethod: "CHEQUE",
		Amount:        100,
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

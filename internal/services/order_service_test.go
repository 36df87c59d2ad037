package services_test

import (
	"context"
	"testing"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderFixture struct {
	orderRepo   *repositories.MockOrderRepository
	cartRepo    *repositories.MockCartRepository
	productRepo *repositories.MockProductRepository
	service     *services.OrderService
	customerID  primitive.ObjectID
	sellerID    primitive.ObjectID
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:   repositories.NewMockOrderRepository(),
		cartRepo:    repositories.NewMockCartRepository(),
		productRepo: repositories.NewMockProductRepository(),
		customerID:  primitive.NewObjectID(),
		sellerID:    primitive.NewObjectID(),
	}
	f.service = services.NewOrderService(f.orderRepo, f.cartRepo, f.productRepo, nil)
	return f
}

func (f *orderFixture) seedProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    price,
		Stock:    stock,
		SellerID: f.sellerID,
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))
	return product
}

func (f *orderFixture) seedCart(t *testing.T, lines map[primitive.ObjectID]int) *models.Cart {
	t.Helper()
	cart := &models.Cart{CustomerID: f.customerID}
	for productID, quantity := range lines {
		cart.Items = append(cart.Items, models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	require.NoError(t, f.cartRepo.Save(context.Background(), cart))
	return cart
}

func (f *orderFixture) placeOrder(t *testing.T, cart *models.Cart) *services.OrderSummary {
	t.Helper()
	summary, err := f.service.PlaceOrder(context.Background(), f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "COD",
		CartID:          cart.ID.Hex(),
	})
	require.NoError(t, err)
	return summary
}

func (f *orderFixture) stockOf(t *testing.T, id primitive.ObjectID) int {
	t.Helper()
	product, err := f.productRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}

func (f *orderFixture) orderCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.orderRepo.ListByCustomer(context.Background(), f.customerID, repositories.OrderFilter{})
	require.NoError(t, err)
	return total
}

func TestOrderService_PlaceOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	laptop := f.seedProduct(t, "Laptop", 1200, 10)
	mouse := f.seedProduct(t, "Mouse", 25, 50)
	cart := f.seedCart(t, map[primitive.ObjectID]int{laptop.ID: 2, mouse.ID: 3})

	summary := f.placeOrder(t, cart)

	assert.Equal(t, 2*1200+3*25.0, summary.TotalAmount)
	assert.Equal(t, string(models.OrderStatusPlaced), summary.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, summary.PaymentStatus)

	// Stock was reserved per line.
	assert.Equal(t, 8, f.stockOf(t, laptop.ID))
	assert.Equal(t, 47, f.stockOf(t, mouse.ID))

	// The cart document survives but is empty.
	saved, err := f.cartRepo.GetByCustomer(ctx, f.customerID)
	require.NoError(t, err)
	assert.Empty(t, saved.Items)

	// Placing again with the now-empty cart fails.
	_, err = f.service.PlaceOrder(ctx, f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "COD",
		CartID:          cart.ID.Hex(),
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestOrderService_PlaceOrder_PaymentAlwaysStartsPending(t *testing.T) {
	for _, method := range []string{"COD", "ONLINE", "CARD", "UPI"} {
		f := newOrderFixture()
		product := f.seedProduct(t, "Keyboard", 75, 10)
		cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})

		summary, err := f.service.PlaceOrder(context.Background(), f.customerID.Hex(), services.PlaceOrderInput{
			ShippingAddress: "1 Test Street",
			PaymentMethod:   method,
			CartID:          cart.ID.Hex(),
		})
		require.NoError(t, err, method)
		assert.Equal(t, models.PaymentStatusPending, summary.PaymentStatus, method)
	}
}

func TestOrderService_PlaceOrder_InsufficientStockIsAllOrNothing(t *testing.T) {
	f := newOrderFixture()

	laptop := f.seedProduct(t, "Laptop", 1200, 10)
	mouse := f.seedProduct(t, "Mouse", 25, 2)
	cart := f.seedCart(t, map[primitive.ObjectID]int{laptop.ID: 1, mouse.ID: 5})

	_, err := f.service.PlaceOrder(context.Background(), f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "COD",
		CartID:          cart.ID.Hex(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Contains(t, err.Error(), "insufficient stock")

	// No order was created and every stock level is untouched.
	assert.Equal(t, int64(0), f.orderCount(t))
	assert.Equal(t, 10, f.stockOf(t, laptop.ID))
	assert.Equal(t, 2, f.stockOf(t, mouse.ID))

	// The cart is still intact for a retry.
	saved, err := f.cartRepo.GetByCustomer(context.Background(), f.customerID)
	require.NoError(t, err)
	assert.Len(t, saved.Items, 2)
}

// racingProductRepo drains one product's stock right before its conditional
// decrement runs, simulating a concurrent placement winning the race after
// this placement's pre-check already passed.
type racingProductRepo struct {
	*repositories.MockProductRepository
	drain primitive.ObjectID
}

func (r *racingProductRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	if id == r.drain {
		product, err := r.MockProductRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		product.Stock = 0
		if err := r.MockProductRepository.Save(ctx, product); err != nil {
			return err
		}
	}
	return r.MockProductRepository.DecrementStock(ctx, id, quantity)
}

func TestOrderService_PlaceOrder_CompensatesAppliedDecrements(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	laptop := f.seedProduct(t, "Laptop", 1200, 5)
	mouse := f.seedProduct(t, "Mouse", 25, 5)

	// Lines in a fixed order so the laptop's decrement lands before the
	// mouse's stock vanishes underneath its own.
	cart := &models.Cart{CustomerID: f.customerID, Items: []models.CartItem{
		{ID: primitive.NewObjectID(), ProductID: laptop.ID, Quantity: 2},
		{ID: primitive.NewObjectID(), ProductID: mouse.ID, Quantity: 3},
	}}
	require.NoError(t, f.cartRepo.Save(ctx, cart))

	service := services.NewOrderService(f.orderRepo, f.cartRepo, &racingProductRepo{
		MockProductRepository: f.productRepo,
		drain:                 mouse.ID,
	}, nil)

	_, err := service.PlaceOrder(ctx, f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "COD",
		CartID:          cart.ID.Hex(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Contains(t, err.Error(), "insufficient stock for product: Mouse")

	// The laptop's decrement had already been applied and must be restored;
	// the mouse's stock stays at whatever the racing placement left behind.
	assert.Equal(t, 5, f.stockOf(t, laptop.ID))
	assert.Equal(t, 0, f.stockOf(t, mouse.ID))
	assert.Equal(t, int64(0), f.orderCount(t))

	saved, err := f.cartRepo.GetByCustomer(ctx, f.customerID)
	require.NoError(t, err)
	assert.Len(t, saved.Items, 2)
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Mouse", 25, 10)
	cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})

	// Unknown payment method.
	_, err := f.service.PlaceOrder(ctx, f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "BARTER",
		CartID:          cart.ID.Hex(),
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	// Blank shipping address.
	_, err = f.service.PlaceOrder(ctx, f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "   ",
		PaymentMethod:   "COD",
		CartID:          cart.ID.Hex(),
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	// Someone else's cart ID.
	_, err = f.service.PlaceOrder(ctx, f.customerID.Hex(), services.PlaceOrderInput{
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "COD",
		CartID:          primitive.NewObjectID().Hex(),
	})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	// Nothing placed along the way.
	assert.Equal(t, int64(0), f.orderCount(t))
	assert.Equal(t, 10, f.stockOf(t, product.ID))
}

func TestOrderService_UpdateSellerOrderStatus(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Laptop", 1200, 10)
	cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
	summary := f.placeOrder(t, cart)

	// Walk the happy path and check each stage timestamp lands.
	for _, status := range []models.OrderStatus{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		view, err := f.service.UpdateSellerOrderStatus(ctx, f.sellerID.Hex(), summary.OrderID, string(status))
		require.NoError(t, err, status)
		assert.Equal(t, string(status), view.OrderStatus)
	}

	orderID, _ := primitive.ObjectIDFromHex(summary.OrderID)
	order, err := f.orderRepo.GetForCustomer(ctx, orderID, f.customerID)
	require.NoError(t, err)
	assert.NotNil(t, order.ProcessingAt)
	assert.NotNil(t, order.ShippedAt)
	assert.NotNil(t, order.DeliveredAt)

	// Delivered is terminal.
	_, err = f.service.UpdateSellerOrderStatus(ctx, f.sellerID.Hex(), summary.OrderID, string(models.OrderStatusCancelled))
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestOrderService_UpdateSellerOrderStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.OrderStatusPlaced, models.OrderStatusProcessing, true},
		{models.OrderStatusPlaced, models.OrderStatusCancelled, true},
		{models.OrderStatusPlaced, models.OrderStatusShipped, false},
		{models.OrderStatusPlaced, models.OrderStatusDelivered, false},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusProcessing, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusDelivered, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusProcessing, false},
		{models.OrderStatusCancelled, models.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		f := newOrderFixture()
		ctx := context.Background()
		product := f.seedProduct(t, "Laptop", 1200, 10)
		cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
		summary := f.placeOrder(t, cart)

		orderID, _ := primitive.ObjectIDFromHex(summary.OrderID)
		order, err := f.orderRepo.GetForCustomer(ctx, orderID, f.customerID)
		require.NoError(t, err)
		order.OrderStatus = tc.from
		require.NoError(t, f.orderRepo.Save(ctx, order))

		_, err = f.service.UpdateSellerOrderStatus(ctx, f.sellerID.Hex(), summary.OrderID, string(tc.to))
		if tc.allowed {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.True(t, apperr.IsKind(err, apperr.Conflict), "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestOrderService_UpdateSellerOrderStatus_ScopedToSeller(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Laptop", 1200, 10)
	cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
	summary := f.placeOrder(t, cart)

	// A seller with no product in the order cannot see it.
	otherSeller := primitive.NewObjectID()
	_, err := f.service.UpdateSellerOrderStatus(ctx, otherSeller.Hex(), summary.OrderID, string(models.OrderStatusProcessing))
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	// Unknown status names are rejected up front.
	_, err = f.service.UpdateSellerOrderStatus(ctx, f.sellerID.Hex(), summary.OrderID, "Teleported")
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestOrderService_CancelCustomerOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Laptop", 1200, 10)
	cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
	summary := f.placeOrder(t, cart)

	view, err := f.service.CancelCustomerOrder(ctx, f.customerID.Hex(), summary.OrderID, "")
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusCancelled), view.OrderStatus)
	assert.Equal(t, "Cancelled by customer", view.CancelReason)
	assert.NotNil(t, view.CancelledAt)

	// Cancelling twice is a conflict.
	_, err = f.service.CancelCustomerOrder(ctx, f.customerID.Hex(), summary.OrderID, "changed my mind")
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestOrderService_CancelCustomerOrder_RejectedAfterShipping(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Laptop", 1200, 10)
	cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
	summary := f.placeOrder(t, cart)

	orderID, _ := primitive.ObjectIDFromHex(summary.OrderID)
	order, err := f.orderRepo.GetForCustomer(ctx, orderID, f.customerID)
	require.NoError(t, err)
	order.OrderStatus = models.OrderStatusShipped
	require.NoError(t, f.orderRepo.Save(ctx, order))

	_, err = f.service.CancelCustomerOrder(ctx, f.customerID.Hex(), summary.OrderID, "too late")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Contains(t, err.Error(), "Shipped")
}

func TestOrderService_TrackCustomerOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Laptop", 1200, 10)
	cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
	summary := f.placeOrder(t, cart)

	// Fresh order: only the placement step.
	view, err := f.service.TrackCustomerOrder(ctx, f.customerID.Hex(), summary.OrderID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusPlaced), view.CurrentStatus)
	require.Len(t, view.TrackingSteps, 1)
	assert.Equal(t, string(models.OrderStatusPlaced), view.TrackingSteps[0].Status)

	// Advance through processing and shipping; each stage appends a step.
	_, err = f.service.UpdateSellerOrderStatus(ctx, f.sellerID.Hex(), summary.OrderID, string(models.OrderStatusProcessing))
	require.NoError(t, err)
	_, err = f.service.UpdateSellerOrderStatus(ctx, f.sellerID.Hex(), summary.OrderID, string(models.OrderStatusShipped))
	require.NoError(t, err)

	view, err = f.service.TrackCustomerOrder(ctx, f.customerID.Hex(), summary.OrderID)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusShipped), view.CurrentStatus)
	require.Len(t, view.TrackingSteps, 3)
	assert.Equal(t, string(models.OrderStatusProcessing), view.TrackingSteps[1].Status)
	assert.Equal(t, string(models.OrderStatusShipped), view.TrackingSteps[2].Status)

	// Another customer cannot track it.
	_, err = f.service.TrackCustomerOrder(ctx, primitive.NewObjectID().Hex(), summary.OrderID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestOrderService_SellerOrderViews(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	// Two sellers contribute products to the same order.
	mine := f.seedProduct(t, "Laptop", 1200, 10)
	otherSeller := primitive.NewObjectID()
	theirs := &models.Product{Name: "Desk", Price: 300, Stock: 5, SellerID: otherSeller}
	require.NoError(t, f.productRepo.Create(ctx, theirs))

	cart := f.seedCart(t, map[primitive.ObjectID]int{mine.ID: 1, theirs.ID: 2})
	summary := f.placeOrder(t, cart)

	// Each seller sees the order, but only their own lines.
	view, err := f.service.GetSellerOrderByID(ctx, f.sellerID.Hex(), summary.OrderID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, mine.ID.Hex(), view.Items[0].ProductID)
	require.NotNil(t, view.Items[0].StockLeft)
	assert.Equal(t, 9, *view.Items[0].StockLeft)

	list, err := f.service.GetSellerOrders(ctx, otherSeller.Hex(), 1, 10, "")
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	require.Len(t, list.Orders[0].Items, 1)
	assert.Equal(t, theirs.ID.Hex(), list.Orders[0].Items[0].ProductID)

	// A seller with no products sees an empty listing.
	list, err = f.service.GetSellerOrders(ctx, primitive.NewObjectID().Hex(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, list.Orders)
}

func TestOrderService_GetCustomerOrders(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	product := f.seedProduct(t, "Mouse", 25, 100)

	for i := 0; i < 3; i++ {
		cart := f.seedCart(t, map[primitive.ObjectID]int{product.ID: 1})
		f.placeOrder(t, cart)
	}

	list, err := f.service.GetCustomerOrders(ctx, f.customerID.Hex(), 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.TotalOrders)
	assert.Equal(t, int64(2), list.TotalPages)
	assert.Len(t, list.Orders, 2)

	// Status filter narrows the listing.
	list, err = f.service.GetCustomerOrders(ctx, f.customerID.Hex(), 1, 10, string(models.OrderStatusCancelled))
	require.NoError(t, err)
	assert.Empty(t, list.Orders)
}

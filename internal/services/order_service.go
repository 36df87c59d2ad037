package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/pkg/rabbitmq"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderService converts carts into immutable orders, manages stock deduction
// and drives the order status state machine.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// PlaceOrderInput is the customer's order placement request.
type PlaceOrderInput struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"required"`
	CartID          string `json:"cartId" validate:"required"`
}

// OrderSummary is the placement result returned to the customer.
type OrderSummary struct {
	OrderID       string    `json:"orderId"`
	TotalAmount   float64   `json:"totalAmount"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	OrderStatus   string    `json:"orderStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PlaceOrder drains the customer's cart into an immutable order. Stock is
// taken with per-product conditional decrements; if any line cannot be
// satisfied, decrements already applied are re-incremented and no order is
// created. The payment status starts Pending for every method and is settled
// by the payment service.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID string, input PlaceOrderInput) (*OrderSummary, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, apperr.New(apperr.Validation, "shipping address is required")
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return nil, apperr.Newf(apperr.Validation, "invalid payment method: %s", input.PaymentMethod)
	}
	cartID, err := parseID(input.CartID, "cart")
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetForCustomer(ctx, cartID, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return nil, apperr.New(apperr.NotFound, "cart not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, apperr.New(apperr.Validation, "cart is empty")
	}

	// Snapshot every line at the live price. The pre-check here only gives a
	// friendlier early failure; the conditional decrement below is the
	// authoritative guard against racing placements.
	var totalAmount float64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrProductNotFound) {
				return nil, apperr.Newf(apperr.NotFound, "product %s no longer exists", line.ProductID.Hex())
			}
			return nil, apperr.Wrap(err, apperr.Internal, "failed to load product")
		}
		if product.Stock < line.Quantity {
			return nil, apperr.Newf(apperr.Conflict, "insufficient stock for product: %s", product.Name)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
		totalAmount += product.Price * float64(line.Quantity)
	}

	// Conditional decrement per line, compensating lines already taken if a
	// later one fails. All-or-nothing: no order exists until every line held.
	applied := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.compensateStock(ctx, applied)
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return nil, apperr.Newf(apperr.Conflict, "insufficient stock for product: %s", item.Name)
			}
			if errors.Is(err, repositories.ErrProductNotFound) {
				return nil, apperr.Newf(apperr.NotFound, "product %s no longer exists", item.ProductID.Hex())
			}
			return nil, apperr.Wrap(err, apperr.Internal, "failed to reserve stock")
		}
		applied = append(applied, item)
	}

	order := &models.Order{
		CustomerID:      custID,
		CartID:          cart.ID,
		Items:           items,
		TotalAmount:     totalAmount,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPlaced,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.compensateStock(ctx, applied)
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create order")
	}

	// Empty the cart, keeping the document.
	cart.Items = []models.CartItem{}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		log.Printf("Warning: failed to empty cart %s after order %s: %v", cart.ID.Hex(), order.ID.Hex(), err)
	}

	s.publish("order.created", map[string]interface{}{
		"orderId":    order.ID.Hex(),
		"customerId": order.CustomerID.Hex(),
		"status":     order.OrderStatus,
		"total":      order.TotalAmount,
	})

	return &OrderSummary{
		OrderID:       order.ID.Hex(),
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   string(order.OrderStatus),
		CreatedAt:     order.CreatedAt,
	}, nil
}

// compensateStock re-increments decrements already applied by a placement
// that cannot complete.
func (s *OrderService) compensateStock(ctx context.Context, applied []models.OrderItem) {
	for _, item := range applied {
		if err := s.productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("Warning: failed to restore stock for product %s (+%d): %v", item.ProductID.Hex(), item.Quantity, err)
		}
	}
}

// StatusUpdateView is the result of a seller status transition.
type StatusUpdateView struct {
	OrderID     string    `json:"orderId"`
	OrderStatus string    `json:"orderStatus"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateSellerOrderStatus advances the order status along the allowed
// transition table. The lookup is scoped to orders containing at least one
// product owned by the acting seller.
func (s *OrderService) UpdateSellerOrderStatus(ctx context.Context, sellerID, orderID, newStatus string) (*StatusUpdateView, error) {
	sellID, err := parseID(sellerID, "seller")
	if err != nil {
		return nil, err
	}
	ordID, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	next := models.OrderStatus(newStatus)
	if !next.Valid() {
		return nil, apperr.Newf(apperr.Validation, "invalid order status: %s", newStatus)
	}

	order, err := s.sellerOrder(ctx, sellID, ordID)
	if err != nil {
		return nil, err
	}

	if !order.OrderStatus.CanTransitionTo(next) {
		return nil, apperr.Newf(apperr.Conflict, "invalid status change from %s to %s", order.OrderStatus, next)
	}

	now := time.Now()
	order.OrderStatus = next
	switch next {
	case models.OrderStatusProcessing:
		order.ProcessingAt = &now
	case models.OrderStatusShipped:
		order.ShippedAt = &now
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	case models.OrderStatusCancelled:
		order.CancelledAt = &now
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update order status")
	}

	s.publish("order.status_changed", map[string]interface{}{
		"orderId": order.ID.Hex(),
		"status":  order.OrderStatus,
	})

	return &StatusUpdateView{
		OrderID:     order.ID.Hex(),
		OrderStatus: string(order.OrderStatus),
		UpdatedAt:   order.UpdatedAt,
	}, nil
}

// CancellationView is the result of a customer cancellation.
type CancellationView struct {
	OrderID      string     `json:"orderId"`
	OrderStatus  string     `json:"orderStatus"`
	CancelReason string     `json:"cancelReason"`
	CancelledAt  *time.Time `json:"cancelledAt"`
}

// CancelCustomerOrder is the customer-driven shortcut into Cancelled. It is
// checked independently of the seller transition table: any status other
// than Shipped, Delivered or Cancelled is cancellable.
func (s *OrderService) CancelCustomerOrder(ctx context.Context, customerID, orderID, reason string) (*CancellationView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	ordID, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetForCustomer(ctx, ordID, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load order")
	}

	switch order.OrderStatus {
	case models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return nil, apperr.Newf(apperr.Conflict, "cannot cancel an order with status '%s'", order.OrderStatus)
	}

	now := time.Now()
	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by customer"
	}
	order.OrderStatus = models.OrderStatusCancelled
	order.CancelReason = reason
	order.CancelledAt = &now

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to cancel order")
	}

	s.publish("order.status_changed", map[string]interface{}{
		"orderId": order.ID.Hex(),
		"status":  order.OrderStatus,
		"reason":  order.CancelReason,
	})

	return &CancellationView{
		OrderID:      order.ID.Hex(),
		OrderStatus:  string(order.OrderStatus),
		CancelReason: order.CancelReason,
		CancelledAt:  order.CancelledAt,
	}, nil
}

// TrackingStep is one human-readable milestone in an order's history.
type TrackingStep struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// TrackingView is the chronological tracking report for one order.
type TrackingView struct {
	OrderID         string         `json:"orderId"`
	CurrentStatus   string         `json:"currentStatus"`
	PaymentStatus   string         `json:"paymentStatus"`
	PaymentMethod   string         `json:"paymentMethod"`
	TotalAmount     float64        `json:"totalAmount"`
	ShippingAddress string         `json:"shippingAddress"`
	TrackingSteps   []TrackingStep `json:"trackingSteps"`
}

// TrackCustomerOrder derives the tracking timeline from whichever per-stage
// timestamps are populated, always starting with Placed at creation time.
func (s *OrderService) TrackCustomerOrder(ctx context.Context, customerID, orderID string) (*TrackingView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	ordID, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetForCustomer(ctx, ordID, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load order")
	}

	steps := []TrackingStep{{
		Status:    string(models.OrderStatusPlaced),
		Timestamp: order.CreatedAt,
		Message:   "Order placed successfully by customer",
	}}
	if order.ProcessingAt != nil {
		steps = append(steps, TrackingStep{
			Status:    string(models.OrderStatusProcessing),
			Timestamp: *order.ProcessingAt,
			Message:   "Seller is preparing your order",
		})
	}
	if order.ShippedAt != nil {
		steps = append(steps, TrackingStep{
			Status:    string(models.OrderStatusShipped),
			Timestamp: *order.ShippedAt,
			Message:   "Order shipped and on its way",
		})
	}
	if order.DeliveredAt != nil {
		steps = append(steps, TrackingStep{
			Status:    string(models.OrderStatusDelivered),
			Timestamp: *order.DeliveredAt,
			Message:   "Order delivered successfully",
		})
	}
	if order.OrderStatus == models.OrderStatusCancelled && order.CancelledAt != nil {
		message := order.CancelReason
		if message == "" {
			message = "Order cancelled"
		}
		steps = append(steps, TrackingStep{
			Status:    string(models.OrderStatusCancelled),
			Timestamp: *order.CancelledAt,
			Message:   message,
		})
	}

	return &TrackingView{
		OrderID:         order.ID.Hex(),
		CurrentStatus:   string(order.OrderStatus),
		PaymentStatus:   order.PaymentStatus,
		PaymentMethod:   order.PaymentMethod,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		TrackingSteps:   steps,
	}, nil
}

// OrderItemView is one snapshot line enriched with live product images.
type OrderItemView struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Images    []string `json:"images"`
	StockLeft *int     `json:"stockLeft,omitempty"`
}

// OrderView is one order in a listing or detail response.
type OrderView struct {
	OrderID         string          `json:"orderId"`
	TotalAmount     float64         `json:"totalAmount"`
	OrderStatus     string          `json:"orderStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItemView `json:"items"`
}

// OrderListView is a paginated order listing.
type OrderListView struct {
	Page        int64       `json:"page"`
	Limit       int64       `json:"limit"`
	TotalOrders int64       `json:"totalOrders"`
	TotalPages  int64       `json:"totalPages"`
	Orders      []OrderView `json:"orders"`
}

// GetCustomerOrders lists the customer's orders, newest first, optionally
// filtered by status.
func (s *OrderService) GetCustomerOrders(ctx context.Context, customerID string, page, limit int64, status string) (*OrderListView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}

	filter := repositories.OrderFilter{Status: status, Page: page, Limit: limit}
	orders, total, err := s.orderRepo.ListByCustomer(ctx, custID, filter)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to list orders")
	}

	return s.buildListView(ctx, orders, total, filter, nil, false), nil
}

// GetCustomerOrderByID returns one of the customer's orders with live stock
// detail per line.
func (s *OrderService) GetCustomerOrderByID(ctx context.Context, customerID, orderID string) (*OrderView, error) {
	custID, err := parseID(customerID, "customer")
	if err != nil {
		return nil, err
	}
	ordID, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetForCustomer(ctx, ordID, custID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load order")
	}

	view := s.buildOrderView(ctx, *order, nil, true)
	return &view, nil
}

// GetSellerOrders lists orders containing at least one of the seller's
// products; each order's items are filtered down to the seller's own.
func (s *OrderService) GetSellerOrders(ctx context.Context, sellerID string, page, limit int64, status string) (*OrderListView, error) {
	sellID, err := parseID(sellerID, "seller")
	if err != nil {
		return nil, err
	}

	productIDs, err := s.productRepo.IDsBySeller(ctx, sellID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load seller products")
	}
	if len(productIDs) == 0 {
		return &OrderListView{Page: 1, Limit: limit, Orders: []OrderView{}}, nil
	}

	filter := repositories.OrderFilter{Status: status, Page: page, Limit: limit}
	orders, total, err := s.orderRepo.ListContainingProducts(ctx, productIDs, filter)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to list orders")
	}

	return s.buildListView(ctx, orders, total, filter, productIDs, false), nil
}

// GetSellerOrderByID returns one order visible to the seller, with items
// filtered to the seller's products.
func (s *OrderService) GetSellerOrderByID(ctx context.Context, sellerID, orderID string) (*OrderView, error) {
	sellID, err := parseID(sellerID, "seller")
	if err != nil {
		return nil, err
	}
	ordID, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.sellerOrder(ctx, sellID, ordID)
	if err != nil {
		return nil, err
	}

	productIDs, err := s.productRepo.IDsBySeller(ctx, sellID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load seller products")
	}

	view := s.buildOrderView(ctx, *order, productIDs, true)
	return &view, nil
}

func (s *OrderService) sellerOrder(ctx context.Context, sellerID, orderID primitive.ObjectID) (*models.Order, error) {
	productIDs, err := s.productRepo.IDsBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load seller products")
	}
	if len(productIDs) == 0 {
		return nil, apperr.New(apperr.NotFound, "no products found for seller")
	}

	order, err := s.orderRepo.GetContainingProducts(ctx, orderID, productIDs)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load order")
	}
	return order, nil
}

func (s *OrderService) buildListView(ctx context.Context, orders []models.Order, total int64, filter repositories.OrderFilter, sellerProducts []primitive.ObjectID, withStock bool) *OrderListView {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	views := make([]OrderView, len(orders))
	for i, order := range orders {
		views[i] = s.buildOrderView(ctx, order, sellerProducts, withStock)
	}
	return &OrderListView{
		Page:        page,
		Limit:       limit,
		TotalOrders: total,
		TotalPages:  (total + limit - 1) / limit,
		Orders:      views,
	}
}

// buildOrderView renders an order from its immutable snapshot, enriched
// best-effort with live product images and, optionally, remaining stock.
// sellerProducts, when non-nil, filters the lines to those products.
func (s *OrderService) buildOrderView(ctx context.Context, order models.Order, sellerProducts []primitive.ObjectID, withStock bool) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		if sellerProducts != nil && !containsID(sellerProducts, item.ProductID) {
			continue
		}
		view := OrderItemView{
			ProductID: item.ProductID.Hex(),
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Images:    []string{},
		}
		if product, err := s.productRepo.GetByID(ctx, item.ProductID); err == nil {
			view.Images = product.Images
			if withStock {
				stock := product.Stock
				view.StockLeft = &stock
			}
		}
		items = append(items, view)
	}

	return OrderView{
		OrderID:         order.ID.Hex(),
		TotalAmount:     order.TotalAmount,
		OrderStatus:     string(order.OrderStatus),
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		Items:           items,
	}
}

func (s *OrderService) publish(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.Publish(routingKey, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// parseID converts a hex document ID, reporting a validation error naming
// the entity on malformed input.
func parseID(id, entity string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.Validation, "invalid %s ID", entity)
	}
	return oid, nil
}

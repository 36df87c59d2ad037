package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// allowedTransitions is the seller-driven transition table. Delivered and
// Cancelled are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:     {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the seller-driven transition s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

func (s OrderStatus) String() string {
	return string(s)
}

// Payment statuses.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
)

// ValidPaymentMethod reports whether method is one of the accepted payment methods.
func ValidPaymentMethod(method string) bool {
	switch method {
	case "COD", "ONLINE", "CARD", "UPI":
		return true
	}
	return false
}

// OrderItem is an immutable snapshot of a product line taken at order time.
// It deliberately copies name and price so later catalog edits never alter
// historical orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order represents a customer order. The core fields (customer, items,
// total, shipping address, payment method) are written once at placement and
// never modified; only status, payment and per-stage timestamps change.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customerId"`
	CartID          primitive.ObjectID `bson:"cartId" json:"cartId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress string             `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentID       string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	OrderStatus     OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	CancelReason    string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledAt     *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	ProcessingAt    *time.Time         `bson:"processingAt,omitempty" json:"processingAt,omitempty"`
	ShippedAt       *time.Time         `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

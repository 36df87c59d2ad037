package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one (product, quantity) line inside a cart. Lines keep their
// insertion order; adding an already-present product merges into the existing
// line instead of appending a duplicate.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id" json:"itemId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

// Cart is the single active cart of one customer. It is emptied, not
// deleted, when an order is placed from it.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	Items      []CartItem         `bson:"items" json:"items"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindItem returns the line with the given item ID, or nil.
func (c *Cart) FindItem(itemID primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItemByProduct returns the line holding the given product, or nil.
func (c *Cart) FindItemByProduct(productID primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

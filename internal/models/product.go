package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single customer review embedded in a product document.
// Reviews are append-only; the product's Rating is derived from them.
type Review struct {
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	Name       string             `bson:"name" json:"name"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Product represents a catalog product, owned by exactly one seller and one category.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required,min=3,max=100"`
	Description string             `bson:"description,omitempty" json:"description,omitempty" validate:"omitempty,max=500"`
	Price       float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Stock       int                `bson:"stock" json:"stock" validate:"gte=0"`
	Images      []string           `bson:"images" json:"images"`
	CategoryID  primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	SellerID    primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	// Rating is the arithmetic mean of all review ratings, 0 if there are none.
	Rating    float64   `bson:"rating" json:"rating"`
	Reviews   []Review  `bson:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCartRepository is a MongoDB implementation of CartRepository.
type MongoCartRepository struct {
	collection *mongo.Collection
}

// NewMongoCartRepository creates a new instance of MongoCartRepository.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{
		collection: db.Collection("carts"),
	}
}

// GetByCustomer retrieves the customer's single cart.
func (r *MongoCartRepository) GetByCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"customerId": customerID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// GetForCustomer retrieves a cart by ID only if the customer owns it.
func (r *MongoCartRepository) GetForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	filter := bson.M{"_id": id, "customerId": customerID}
	err := r.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", id.Hex(), err)
	}
	return &cart, nil
}

// Save upserts the whole cart document keyed by customer and stamps UpdatedAt.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"customerId": cart.CustomerID}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// CreateIndexes sets up the unique one-cart-per-customer index.
func (r *MongoCartRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "customerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}

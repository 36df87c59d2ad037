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

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

// Create inserts a new order.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetForCustomer retrieves an order by ID only if the customer owns it.
func (r *MongoOrderRepository) GetForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Order, error) {
	filter := bson.M{"_id": id, "customerId": customerID}
	return r.findOne(ctx, filter)
}

// GetContainingProducts retrieves an order only if it holds at least one of
// the given products.
func (r *MongoOrderRepository) GetContainingProducts(ctx context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.Order, error) {
	filter := bson.M{
		"_id":             id,
		"items.productId": bson.M{"$in": productIDs},
	}
	return r.findOne(ctx, filter)
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ListByCustomer retrieves the customer's orders, newest first.
func (r *MongoOrderRepository) ListByCustomer(ctx context.Context, customerID primitive.ObjectID, filter OrderFilter) ([]models.Order, int64, error) {
	query := bson.M{"customerId": customerID}
	return r.list(ctx, query, filter)
}

// ListContainingProducts retrieves orders holding at least one of the given
// products, newest first.
func (r *MongoOrderRepository) ListContainingProducts(ctx context.Context, productIDs []primitive.ObjectID, filter OrderFilter) ([]models.Order, int64, error) {
	query := bson.M{"items.productId": bson.M{"$in": productIDs}}
	return r.list(ctx, query, filter)
}

func (r *MongoOrderRepository) list(ctx context.Context, query bson.M, filter OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" {
		query["orderStatus"] = filter.Status
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return orders, total, nil
}

// Save writes back the order's mutable fields and stamps UpdatedAt.
func (r *MongoOrderRepository) Save(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

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

const defaultPageLimit = 10

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
	}
}

// GetByID retrieves a single product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id.Hex(), err)
	}
	return &product, nil
}

// List retrieves products matching the filter with the total match count.
func (r *MongoProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := bson.M{}
	if filter.SellerID != nil {
		query["sellerId"] = *filter.SellerID
	}
	if filter.CategoryID != nil {
		query["categoryId"] = *filter.CategoryID
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return products, total, nil
}

// IDsBySeller returns the IDs of every product owned by the seller.
func (r *MongoProductRepository) IDsBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"sellerId": sellerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find seller products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode seller product IDs: %w", err)
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// Create inserts a new product.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Save replaces the whole product document.
func (r *MongoProductRepository) Save(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock applies a conditional decrement: the filter requires
// stock >= quantity, so a concurrent placement that drained the stock first
// makes this a no-match instead of driving stock negative.
func (r *MongoProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	filter := bson.M{
		"_id":   id,
		"stock": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		// Distinguish missing product from drained stock.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("failed to decrement stock: %w", countErr)
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock returns quantity to the product's stock.
func (r *MongoProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	update := bson.M{
		"$inc": bson.M{"stock": quantity},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	return page, limit
}

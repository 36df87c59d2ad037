package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bazaar/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCategoryRepository is a MongoDB implementation of CategoryRepository.
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new instance of MongoCategoryRepository.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{
		collection: db.Collection("categories"),
	}
}

// GetByID retrieves a category by its ID.
func (r *MongoCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id.Hex(), err)
	}
	return &category, nil
}

// GetByName retrieves a category by its exact name.
func (r *MongoCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"name": strings.TrimSpace(name)}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &category, nil
}

// List retrieves categories matching the filter, newest first.
func (r *MongoCategoryRepository) List(ctx context.Context, filter CategoryFilter) ([]models.Category, int64, error) {
	query := bson.M{}
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
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, fmt.Errorf("failed to decode categories: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return categories, total, nil
}

// Create inserts a new category.
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.Name = strings.TrimSpace(category.Name)
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCategoryDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Save replaces the whole category document.
func (r *MongoCategoryRepository) Save(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category by its ID.
func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// CreateIndexes sets up the unique category name index.
func (r *MongoCategoryRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}
	return nil
}

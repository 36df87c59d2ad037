package services_test

import (
	"context"
	"testing"

	"bazaar/internal/apperr"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := services.NewCategoryService(repo)
	ctx := context.Background()
	adminID := primitive.NewObjectID()

	category, err := service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{
		Name:        "  Electronics ",
		Description: "Devices and accessories",
	})
	require.NoError(t, err)
	assert.Equal(t, "Electronics", category.Name)
	assert.Equal(t, adminID, category.CreatedBy)
	assert.Nil(t, category.ParentID)

	// Names are unique.
	_, err = service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{Name: "Electronics"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	// A child under an existing parent.
	child, err := service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{
		Name:     "Laptops",
		ParentID: category.ID.Hex(),
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, category.ID, *child.ParentID)

	// A missing parent is rejected.
	_, err = service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{
		Name:     "Orphans",
		ParentID: primitive.NewObjectID().Hex(),
	})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCategoryService_ListCategories(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := services.NewCategoryService(repo)
	ctx := context.Background()
	adminID := primitive.NewObjectID()

	for _, name := range []string{"Electronics", "Books", "Board Games"} {
		_, err := service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{Name: name})
		require.NoError(t, err)
	}

	view, err := service.ListCategories(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.Total)
	assert.Equal(t, int64(2), view.TotalPages)
	assert.Len(t, view.Categories, 2)

	view, err = service.ListCategories(ctx, 1, 10, "bo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Total)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := services.NewCategoryService(repo)
	ctx := context.Background()
	adminID := primitive.NewObjectID()

	category, err := service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	parent, err := service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{Name: "Everything"})
	require.NoError(t, err)

	newName := "Gadgets"
	parentHex := parent.ID.Hex()
	updated, err := service.UpdateCategory(ctx, category.ID.Hex(), services.UpdateCategoryInput{
		Name:     &newName,
		ParentID: &parentHex,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gadgets", updated.Name)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, parent.ID, *updated.ParentID)

	// A category cannot parent itself.
	selfHex := category.ID.Hex()
	_, err = service.UpdateCategory(ctx, category.ID.Hex(), services.UpdateCategoryInput{ParentID: &selfHex})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = service.UpdateCategory(ctx, primitive.NewObjectID().Hex(), services.UpdateCategoryInput{Name: &newName})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()
	service := services.NewCategoryService(repo)
	ctx := context.Background()
	adminID := primitive.NewObjectID()

	category, err := service.CreateCategory(ctx, adminID.Hex(), services.CategoryInput{Name: "Electronics"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteCategory(ctx, category.ID.Hex()))

	err = service.DeleteCategory(ctx, category.ID.Hex())
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

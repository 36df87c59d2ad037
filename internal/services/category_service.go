package services

import (
	"context"
	"errors"
	"strings"

	"bazaar/internal/apperr"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// CategoryService handles the category tree.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput is the admin's create/update request.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ParentID    string `json:"parentId"`
}

// CategoryListView is a paginated category listing.
type CategoryListView struct {
	Page       int64             `json:"page"`
	Limit      int64             `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int64             `json:"totalPages"`
	Categories []models.Category `json:"categories"`
}

// CreateCategory adds a new category with a unique name and an optional,
// existing parent.
func (s *CategoryService) CreateCategory(ctx context.Context, adminID string, input CategoryInput) (*models.Category, error) {
	creatorID, err := parseID(adminID, "admin")
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CreatedBy:   creatorID,
	}
	if input.ParentID != "" {
		parentID, err := parseID(input.ParentID, "parent category")
		if err != nil {
			return nil, err
		}
		if _, err := s.categoryRepo.GetByID(ctx, parentID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, apperr.New(apperr.NotFound, "parent category not found")
			}
			return nil, apperr.Wrap(err, apperr.Internal, "failed to load parent category")
		}
		category.ParentID = &parentID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryDuplicate) {
			return nil, apperr.New(apperr.Conflict, "category already exists")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create category")
	}
	return category, nil
}

// GetCategory retrieves a single category.
func (s *CategoryService) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, catID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperr.New(apperr.NotFound, "category not found")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to load category")
	}
	return category, nil
}

// ListCategories returns a paginated category listing with optional search.
func (s *CategoryService) ListCategories(ctx context.Context, page, limit int64, search string) (*CategoryListView, error) {
	filter := repositories.CategoryFilter{Search: search, Page: page, Limit: limit}
	categories, total, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to list categories")
	}
	if categories == nil {
		categories = []models.Category{}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return &CategoryListView{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Categories: categories,
	}, nil
}

// UpdateCategoryInput carries optional field updates.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ParentID    *string `json:"parentId"`
}

// UpdateCategory modifies an existing category.
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID string, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.ParentID != nil {
		parentID, err := parseID(*input.ParentID, "parent category")
		if err != nil {
			return nil, err
		}
		if parentID == category.ID {
			return nil, apperr.New(apperr.Validation, "category cannot be its own parent")
		}
		if _, err := s.categoryRepo.GetByID(ctx, parentID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, apperr.New(apperr.NotFound, "parent category not found")
			}
			return nil, apperr.Wrap(err, apperr.Internal, "failed to load parent category")
		}
		category.ParentID = &parentID
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update category")
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, catID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperr.New(apperr.NotFound, "category not found")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to delete category")
	}
	return nil
}

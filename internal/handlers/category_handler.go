package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles the public category browse and admin management endpoints.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterPublicRoutes registers the browse routes on the public categories group.
func (h *CategoryHandler) RegisterPublicRoutes(categories fiber.Router) {
	categories.Get("/", h.HandleListCategories)
	categories.Get("/:id", h.HandleGetCategory)
}

// RegisterAdminRoutes registers the management routes on the admin group.
func (h *CategoryHandler) RegisterAdminRoutes(admin fiber.Router) {
	categories := admin.Group("/categories")
	categories.Post("/", h.HandleCreateCategory)
	categories.Put("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", h.HandleDeleteCategory)
}

// HandleListCategories lists categories with optional name search.
func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.categoryService.ListCategories(c.Context(), page, limit, c.Query("search"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "categories fetched", view)
}

// HandleGetCategory returns a single category.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.categoryService.GetCategory(c.Context(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "category fetched", category)
}

// HandleCreateCategory creates a category, rejecting duplicate names.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	category, err := h.categoryService.CreateCategory(c.Context(), identity(c), input)
	if err != nil {
		return Fail(c, err)
	}
	return Created(c, "category created", category)
}

// HandleUpdateCategory applies a partial update to a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var input services.UpdateCategoryInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	category, err := h.categoryService.UpdateCategory(c.Context(), c.Params("id"), input)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "category updated", category)
}

// HandleDeleteCategory removes a category.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.categoryService.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return Fail(c, err)
	}
	return Success(c, "category deleted", nil)
}

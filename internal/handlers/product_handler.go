package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the public catalog and seller product endpoints.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterPublicRoutes registers the browse routes on the public products group.
func (h *ProductHandler) RegisterPublicRoutes(products fiber.Router) {
	products.Get("/", h.HandleListProducts)
	products.Get("/:id", h.HandleGetProduct)
}

// RegisterSellerRoutes registers the management routes on the seller group.
func (h *ProductHandler) RegisterSellerRoutes(seller fiber.Router) {
	products := seller.Group("/products")
	products.Post("/", h.HandleCreateProduct)
	products.Get("/", h.HandleSellerProducts)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)
	products.Put("/:id/stock", h.HandleUpdateStock)
}

// HandleListProducts lists the catalog with optional search and category filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.productService.ListProducts(c.Context(), services.ListOptions{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		CategoryID: c.Query("category"),
	})
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "products fetched", view)
}

// HandleGetProduct returns one product with its embedded reviews.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "product fetched", product)
}

// HandleCreateProduct creates a product owned by the authenticated seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	product, err := h.productService.CreateProduct(c.Context(), identity(c), input)
	if err != nil {
		return Fail(c, err)
	}
	return Created(c, "product created", product)
}

// HandleSellerProducts lists only the authenticated seller's products.
func (h *ProductHandler) HandleSellerProducts(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.productService.ListSellerProducts(c.Context(), identity(c), services.ListOptions{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		CategoryID: c.Query("category"),
	})
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "products fetched", view)
}

// HandleUpdateProduct applies a partial update to a product the seller owns.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	product, err := h.productService.UpdateProduct(c.Context(), identity(c), c.Params("id"), input)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "product updated", product)
}

// HandleDeleteProduct removes a product the seller owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Context(), identity(c), c.Params("id")); err != nil {
		return Fail(c, err)
	}
	return Success(c, "product deleted", nil)
}

// UpdateStockRequest represents the request body for a stock override.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// HandleUpdateStock sets the absolute stock level of a product.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var req UpdateStockRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	view, err := h.productService.UpdateStock(c.Context(), identity(c), c.Params("id"), req.Stock)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "stock updated", view)
}

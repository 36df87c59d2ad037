package handlers

import (
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin moderation endpoints: account management,
// seller approval, and catalog cleanup.
type AdminHandler struct {
	adminService   *services.AdminService
	authService    *services.AuthService
	productService *services.ProductService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, authService *services.AuthService, productService *services.ProductService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		authService:    authService,
		productService: productService,
	}
}

// RegisterRoutes registers the moderation routes on the admin group.
func (h *AdminHandler) RegisterRoutes(admin fiber.Router) {
	users := admin.Group("/users")
	users.Get("/", h.HandleListUsers)
	users.Post("/", h.HandleCreateUser)
	users.Get("/:id", h.HandleGetUser)
	users.Put("/:id", h.HandleUpdateUser)
	users.Delete("/:id", h.HandleDeleteUser)

	sellers := admin.Group("/sellers")
	sellers.Get("/", h.HandleListSellers)
	sellers.Get("/:id", h.HandleGetSeller)
	sellers.Put("/:id/status", h.HandleUpdateSellerStatus)
	sellers.Delete("/:id", h.HandleDeleteSeller)

	products := admin.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListUsers lists accounts with optional role filter and search.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.adminService.ListAccounts(c.Context(), c.Query("role"), page, limit, c.Query("search"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "accounts fetched", view)
}

// CreateUserRequest is the admin-driven account creation request.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role" validate:"required,oneof=customer seller admin"`
}

// HandleCreateUser creates an account with an admin-chosen role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	account, err := h.authService.Register(c.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	}, req.Role)
	if err != nil {
		return Fail(c, err)
	}
	return Created(c, "account created", account)
}

// HandleGetUser returns one account.
func (h *AdminHandler) HandleGetUser(c *fiber.Ctx) error {
	account, err := h.adminService.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "account fetched", account)
}

// HandleUpdateUser applies a partial account update.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var input services.UpdateAccountInput
	if err := parseBody(c, &input); err != nil {
		return Fail(c, err)
	}

	account, err := h.adminService.UpdateAccount(c.Context(), c.Params("id"), input)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "account updated", account)
}

// HandleDeleteUser removes a customer or seller account.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.adminService.DeleteAccount(c.Context(), c.Params("id")); err != nil {
		return Fail(c, err)
	}
	return Success(c, "account deleted", nil)
}

// HandleListSellers lists seller accounts.
func (h *AdminHandler) HandleListSellers(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	view, err := h.adminService.ListAccounts(c.Context(), "seller", page, limit, c.Query("search"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "sellers fetched", view)
}

// HandleGetSeller returns one seller account.
func (h *AdminHandler) HandleGetSeller(c *fiber.Ctx) error {
	account, err := h.adminService.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "seller fetched", account)
}

// UpdateSellerStatusRequest approves or rejects a seller.
type UpdateSellerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason"`
}

// HandleUpdateSellerStatus moves a seller to approved or rejected.
func (h *AdminHandler) HandleUpdateSellerStatus(c *fiber.Ctx) error {
	var req UpdateSellerStatusRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	account, err := h.adminService.UpdateSellerStatus(c.Context(), c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "seller status updated", account)
}

// HandleDeleteSeller removes a seller account.
func (h *AdminHandler) HandleDeleteSeller(c *fiber.Ctx) error {
	if err := h.adminService.DeleteSeller(c.Context(), c.Params("id")); err != nil {
		return Fail(c, err)
	}
	return Success(c, "seller deleted", nil)
}

// HandleListProducts lists the whole catalog, across sellers.
func (h *AdminHandler) HandleListProducts(c *fiber.Ctx) error {
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

// HandleGetProduct returns one product.
func (h *AdminHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "product fetched", product)
}

// HandleDeleteProduct removes any product from the catalog.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.adminService.RemoveProduct(c.Context(), c.Params("id")); err != nil {
		return Fail(c, err)
	}
	return Success(c, "product deleted", nil)
}

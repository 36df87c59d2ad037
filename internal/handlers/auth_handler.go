package handlers

import (
	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterPublicRoutes registers the unauthenticated auth routes.
func (h *AuthHandler) RegisterPublicRoutes(api fiber.Router) {
	api.Post("/customer/register", h.registerWithRole(models.RoleCustomer))
	api.Post("/customer/login", h.HandleLogin)
	api.Post("/seller/register", h.registerWithRole(models.RoleSeller))
	api.Post("/seller/login", h.HandleLogin)
	api.Post("/admin/login", h.HandleLogin)
}

// RegisterProfileRoutes registers the authenticated profile route on a
// role-scoped group.
func (h *AuthHandler) RegisterProfileRoutes(group fiber.Router) {
	group.Get("/profile", h.HandleProfile)
}

func (h *AuthHandler) registerWithRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input services.RegisterInput
		if err := parseBody(c, &input); err != nil {
			return Fail(c, err)
		}

		account, err := h.authService.Register(c.Context(), input, role)
		if err != nil {
			return Fail(c, err)
		}
		return Created(c, "registered successfully", account)
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates an account and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	token, account, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return Fail(c, err)
	}

	return Success(c, "login successful", fiber.Map{
		"token":   token,
		"account": account,
	})
}

// HandleProfile returns the authenticated account's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	account, err := h.authService.GetProfile(c.Context(), identity(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "profile fetched", account)
}

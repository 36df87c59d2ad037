package middleware

import (
	"log"
	"strings"

	"bazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid JWT token
// and, when roles are given, that the token carries one of them.
func AuthRequired(authService *services.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "authorization header format must be 'Bearer <token>'")
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c, "invalid or expired token")
		}

		id, _ := claims["id"].(string)
		role, _ := claims["role"].(string)
		if id == "" || role == "" {
			return unauthorized(c, "invalid or expired token")
		}

		if len(roles) > 0 && !roleAllowed(role, roles) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"errorCode":  302,
				"statusFlag": 0,
				"message":    "access denied for this role",
				"data":       []interface{}{},
			})
		}

		// Store the identity for subsequent handlers.
		c.Locals("user_id", id)
		c.Locals("role", role)

		return c.Next()
	}
}

func roleAllowed(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"errorCode":  302,
		"statusFlag": 0,
		"message":    message,
		"data":       []interface{}{},
	})
}

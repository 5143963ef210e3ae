// Package middleware provides the request-boundary checks: JWT
// validation and the single role gate used by admin routes.
package middleware

import (
	"log"
	"strings"

	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/services/auth"
	"github.com/gungun88/merchant-platform-sub002/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT tokens and puts the claims on the
// request context. Token version is checked against the database so a
// logout invalidates outstanding tokens.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("user %d from token not found", claims.UserID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.TokenVersion != currentVersion {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// RequireRole is the single authorization gate. It admits requests
// whose claims carry one of the listed roles and stores the resolved
// AdminContext for handlers to pass into services.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Locals("adminContext", models.AdminContext{
					UserID: claims.UserID,
					Role:   claims.Role,
				})
				return c.Next()
			}
		}

		log.Printf("access denied: user %d role %q not in %v for %s", claims.UserID, claims.Role, roles, c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

// AdminFromContext returns the AdminContext stored by RequireRole.
func AdminFromContext(c *fiber.Ctx) (models.AdminContext, bool) {
	admin, ok := c.Locals("adminContext").(models.AdminContext)
	return admin, ok
}

// ClaimsFromContext returns the authenticated user's claims.
func ClaimsFromContext(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok
}

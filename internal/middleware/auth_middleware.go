package middleware

import (
	"strings"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ClaimsLocalKey is the fiber.Ctx Locals key holding the validated claims.
const ClaimsLocalKey = "authClaims"

// Protected returns a middleware that requires a valid Bearer token and
// stores the claims in the request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return domain.NewUnauthorizedError("missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return domain.NewUnauthorizedError("invalid authorization header format")
		}

		claims, err := authService.ValidateToken(c.Context(), parts[1])
		if err != nil {
			return domain.NewUnauthorizedError("invalid or expired token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// AdminOnly requires the claims stored by Protected to carry the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return domain.NewUnauthorizedError("authentication required")
		}
		if !claims.IsAdmin {
			return domain.NewForbiddenError("admin privileges required")
		}
		return c.Next()
	}
}

// GetClaims returns the claims set by Protected, or nil when absent.
func GetClaims(c *fiber.Ctx) *dto.AuthClaims {
	claims, ok := c.Locals(ClaimsLocalKey).(*dto.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

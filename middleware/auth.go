// middleware/auth.go
package middleware

import (
	"strings"

	"card-collection-system/models"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload issued at login/registration.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth parses the Bearer token and attaches user identity to the ctx.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Fail(c, fiber.StatusUnauthorized, "Access token is required")
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		cl, err := ParseToken(tokenStr, secret)
		if err != nil {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals("user_id", cl.UserID)
		c.Locals("user_role", cl.Role)
		return c.Next()
	}
}

// RequireAdmin gates a route to ADMIN users. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("user_role").(string); role != models.RoleAdmin {
			return utils.Fail(c, fiber.StatusForbidden, "Access denied. Admin role required")
		}
		return c.Next()
	}
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	cl, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return cl, nil
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *fiber.Ctx) string {
	v, _ := c.Locals("user_id").(string)
	return v
}

package middleware

import (
	"errors"
	"strings"

	"debo-loans/internal/config"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/jwt"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthMiddleware validates the bearer token and stores the caller's Principal
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Access token required")
		}
		accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(principalKey, domain.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   role,
		})
		return c.Next()
	}
}

// Require allows the request only when the caller's role may perform action
func Require(action domain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !domain.Can(p.Role, action) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// GetPrincipal returns the authenticated caller of the request
func GetPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(domain.Principal)
	return p, ok
}

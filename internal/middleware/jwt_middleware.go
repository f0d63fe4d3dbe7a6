package middleware

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/services"
)

const apiUserIDKey = "api_user_id"

// TokenValidator checks bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

// JWTRequired is a Fiber middleware to check for a valid JWT token.
func JWTRequired(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err == nil {
			var userID uint
			if userID, err = services.UserIDFromClaims(claims); err == nil {
				c.Locals(apiUserIDKey, userID)
				return c.Next()
			}
		}

		logger.FromCtx(c).Info("JWT validation failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}
}

// APIUserID returns the user id taken from the bearer token.
func APIUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(apiUserIDKey).(uint)
	return id, ok
}

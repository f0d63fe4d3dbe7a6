package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
	"mfgdash/internal/sessions"
)

const currentUserKey = "current_user"

// UserLoader resolves the user bound to a session.
type UserLoader interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser puts the signed-in user, if any, into the request locals. A
// session pointing at a vanished user is logged out.
func LoadUser(users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := sessions.UserID(c)
		if !ok {
			return c.Next()
		}

		user, err := users.UserByID(c.UserContext(), id)
		switch {
		case err == nil:
			c.Locals(currentUserKey, user)
		case errors.Is(err, repositories.ErrNotFound):
			if err := sessions.Logout(c); err != nil {
				return err
			}
		default:
			logger.FromCtx(c).Error("failed to load session user", zap.Uint("user_id", id), zap.Error(err))
			return fiber.ErrInternalServerError
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by LoadUser, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			sessions.AddFlash(c, sessions.Info, "Please log in to access this page.")
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAdmin rejects everyone but admins with 403, signed in or not.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if !user.IsAdmin() {
			fields := []zap.Field{zap.String("path", c.Path())}
			if user != nil {
				fields = append(fields, zap.Uint("user_id", user.ID))
			}
			logger.FromCtx(c).Warn("admin access denied", fields...)
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/middleware"
	"mfgdash/internal/sessions"
	"mfgdash/internal/views"
)

// CSRFContextKey is where the csrf middleware leaves the form token.
const CSRFContextKey = "csrf"

// render executes a page inside the layout with the values every page needs.
func render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		data["User"] = user
		data["CartCount"] = sessions.Cart(c).Len()
	}
	data["Flashes"] = sessions.Flashes(c)
	if token, ok := c.Locals(CSRFContextKey).(string); ok {
		data["CSRF"] = token
	}
	return c.Status(status).Render(name, data, views.Layout)
}

// redirectWith queues a flash and redirects.
func redirectWith(c *fiber.Ctx, location, category, message string) error {
	sessions.AddFlash(c, category, message)
	return c.Redirect(location)
}

// ErrorHandler answers with the bare status text. 403, 404 and 429 render no
// page; anything unexpected is logged and reported as 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.FromCtx(c).Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	msg := utils.StatusMessage(code)
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"message": msg})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(msg)
}

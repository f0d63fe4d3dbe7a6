package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
)

// PageHandler serves the landing page and the health probe.
type PageHandler struct {
	ping func(ctx context.Context) error
}

// NewPageHandler creates a new PageHandler. ping checks the database.
func NewPageHandler(ping func(ctx context.Context) error) *PageHandler {
	return &PageHandler{ping: ping}
}

// RegisterRoutes registers the public page routes with the Fiber app.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/health", h.HandleHealth)
}

// HandleIndex renders the landing page.
func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "index", nil)
}

// HandleHealth reports whether the database answers.
func (h *PageHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, database, code := "healthy", "up", fiber.StatusOK
	if err := h.ping(ctx); err != nil {
		logger.FromCtx(c).Warn("database ping failed", zap.Error(err))
		status, database, code = "degraded", "down", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}

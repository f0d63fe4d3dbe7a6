package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/middleware"
	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
	"mfgdash/internal/services"
	"mfgdash/internal/sessions"
)

// AdminHandler serves the admin order list and the status workflow.
type AdminHandler struct {
	service *services.OrderService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.OrderService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers the admin routes. Every one of them answers 403
// to anyone but an admin.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin", middleware.RequireAdmin())
	admin.Get("/", h.HandleDashboard)
	admin.Get("/order/:order_id", h.HandleOrderDetail)
	admin.Post("/order/:order_id", h.HandleUpdateStatus)
}

// HandleDashboard lists every order, newest first.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext())
	if err != nil {
		logger.FromCtx(c).Error("failed to list all orders", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return render(c, fiber.StatusOK, "admin_dashboard", fiber.Map{
		"Title":    "Admin",
		"Orders":   orders,
		"Statuses": models.OrderStatuses,
	})
}

// HandleOrderDetail shows one order with its status form.
func (h *AdminHandler) HandleOrderDetail(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return orderLookupError(c, id, err)
	}
	return render(c, fiber.StatusOK, "order_detail", fiber.Map{
		"Title":    fmt.Sprintf("Order #%d", order.ID),
		"Order":    order,
		"Statuses": models.OrderStatuses,
	})
}

// HandleUpdateStatus applies the posted status label. An unknown label leaves
// the order untouched and comes back as a flash.
func (h *AdminHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/admin/order/%d", id)

	var in services.StatusInput
	if err := c.BodyParser(&in); err != nil {
		return redirectWith(c, back, sessions.Danger, "Invalid status.")
	}

	if _, err := h.service.UpdateStatus(c.UserContext(), id, in.Status); err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			return redirectWith(c, back, sessions.Danger, "Invalid status.")
		}
		return orderLookupError(c, id, err)
	}
	return redirectWith(c, back, sessions.Success, "Order status updated.")
}

func orderIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("order_id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

func orderLookupError(c *fiber.Ctx, id uint, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.ErrNotFound
	}
	logger.FromCtx(c).Error("order lookup failed", zap.Uint("order_id", id), zap.Error(err))
	return fiber.ErrInternalServerError
}

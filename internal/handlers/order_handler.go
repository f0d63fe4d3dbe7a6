package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/middleware"
	"mfgdash/internal/services"
	"mfgdash/internal/sessions"
)

// OrderHandler handles checkout and the customer's order list.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/order/review", middleware.RequireLogin(), h.HandleReview)
	router.Post("/order/review", middleware.RequireLogin(), h.HandlePlaceOrder)
	router.Get("/dashboard", middleware.RequireLogin(), h.HandleDashboard)
}

// HandleReview shows the priced cart for confirmation.
func (h *OrderHandler) HandleReview(c *fiber.Ctx) error {
	view, err := h.service.Review(c.UserContext(), sessions.Cart(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return redirectWith(c, "/products", sessions.Warning, "Your cart is empty.")
		}
		logger.FromCtx(c).Error("failed to review order", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return render(c, fiber.StatusOK, "order_review", fiber.Map{
		"Title": "Review order",
		"Cart":  view,
	})
}

// HandlePlaceOrder commits the cart as a Pending order and empties it.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	cart := sessions.Cart(c)

	order, err := h.service.PlaceOrder(c.UserContext(), user.ID, cart)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return redirectWith(c, "/products", sessions.Warning, "Your cart is empty.")
		}
		logger.FromCtx(c).Error("failed to place order", zap.Uint("user_id", user.ID), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	sessions.SaveCart(c, cart)
	logger.FromCtx(c).Info("checkout complete", zap.Uint("order_id", order.ID))
	return redirectWith(c, "/dashboard", sessions.Success, "Order placed successfully.")
}

// HandleDashboard lists the signed-in user's orders, newest first.
func (h *OrderHandler) HandleDashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	orders, err := h.service.ListForUser(c.UserContext(), user.ID)
	if err != nil {
		logger.FromCtx(c).Error("failed to list orders", zap.Uint("user_id", user.ID), zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return render(c, fiber.StatusOK, "dashboard", fiber.Map{
		"Title":  "My orders",
		"Orders": orders,
	})
}

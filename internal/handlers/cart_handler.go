package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/middleware"
	"mfgdash/internal/services"
	"mfgdash/internal/sessions"
)

// CartHandler shows and edits the session cart.
type CartHandler struct {
	carts *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart", middleware.RequireLogin(), h.HandleGetCart)
	router.Get("/cart/remove/:product_id", middleware.RequireLogin(), h.HandleRemove)
}

// HandleGetCart renders the cart priced against the current catalog.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.carts.View(c.UserContext(), sessions.Cart(c))
	if err != nil {
		logger.FromCtx(c).Error("failed to price cart", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return render(c, fiber.StatusOK, "cart", fiber.Map{
		"Title": "Cart",
		"Cart":  view,
	})
}

// HandleRemove drops one line. Removing a product not in the cart is fine.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	if _, err := c.ParamsInt("product_id"); err != nil {
		return fiber.ErrNotFound
	}
	cart := sessions.Cart(c)
	h.carts.Remove(cart, c.Params("product_id"))
	sessions.SaveCart(c, cart)
	return c.Redirect("/cart")
}

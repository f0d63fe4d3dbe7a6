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

// ProductHandler handles the catalog page and add-to-cart posts.
type ProductHandler struct {
	service *services.ProductService
	carts   *services.CartService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, carts *services.CartService) *ProductHandler {
	return &ProductHandler{
		service: service,
		carts:   carts,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", middleware.RequireLogin(), h.HandleGetProducts)
	router.Post("/products", middleware.RequireLogin(), h.HandleAddToCart)
}

// HandleGetProducts lists the active products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	return h.renderProducts(c, fiber.StatusOK, nil)
}

// HandleAddToCart accumulates the posted quantity onto the session cart.
func (h *ProductHandler) HandleAddToCart(c *fiber.Ctx) error {
	var in services.AddToCartInput
	if err := c.BodyParser(&in); err != nil {
		return h.renderProducts(c, fiber.StatusUnprocessableEntity, map[string]string{"product_id": "Invalid product or quantity."})
	}

	cart := sessions.Cart(c)
	if err := h.carts.Add(c.UserContext(), cart, in); err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return h.renderProducts(c, fiber.StatusUnprocessableEntity, verr.Fields)
		case errors.Is(err, services.ErrProductUnavailable):
			return redirectWith(c, "/products", sessions.Warning, "That product is not available.")
		default:
			logger.FromCtx(c).Error("failed to add to cart", zap.Uint("product_id", in.ProductID), zap.Error(err))
			return fiber.ErrInternalServerError
		}
	}
	sessions.SaveCart(c, cart)
	return redirectWith(c, "/products", sessions.Success, "Added to cart.")
}

func (h *ProductHandler) renderProducts(c *fiber.Ctx, status int, errs map[string]string) error {
	products, err := h.service.ListActiveProducts(c.UserContext())
	if err != nil {
		logger.FromCtx(c).Error("failed to list products", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return render(c, status, "products", fiber.Map{
		"Title":    "Products",
		"Products": products,
		"Errors":   errs,
	})
}

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/middleware"
	"mfgdash/internal/models"
	"mfgdash/internal/services"
)

// APIHandler serves the bearer-token JSON API under /api/v1.
type APIHandler struct {
	authService    *services.AuthService
	productService *services.ProductService
	orderService   *services.OrderService
	limiter        fiber.Handler
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(authService *services.AuthService, productService *services.ProductService, orderService *services.OrderService, limiter fiber.Handler) *APIHandler {
	return &APIHandler{
		authService:    authService,
		productService: productService,
		orderService:   orderService,
		limiter:        limiter,
	}
}

// RegisterRoutes registers the API routes on the /api/v1 group.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	jwt := middleware.JWTRequired(h.authService)

	router.Post("/auth/token", h.limiter, h.HandleToken)
	router.Get("/products", jwt, h.HandleGetProducts)
	router.Get("/orders", jwt, h.HandleGetOrders)
	router.Get("/orders/:id", jwt, h.HandleGetOrderByID)
}

type orderItemResponse struct {
	ProductID uint   `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type orderResponse struct {
	ID        uint                `json:"id"`
	Status    models.OrderStatus  `json:"status"`
	Total     string              `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Items     []orderItemResponse `json:"items"`
}

func newOrderResponse(o models.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		Status:    o.Status,
		Total:     o.Total().StringFixed(2),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Items:     make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: it.ProductID,
			SKU:       it.Product.SKU,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal().StringFixed(2),
		})
	}
	return resp
}

// HandleToken exchanges credentials for a signed token.
func (h *APIHandler) HandleToken(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	user, err := h.authService.Authenticate(c.UserContext(), in)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  verr.Fields,
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		logger.FromCtx(c).Error("failed to issue token", zap.Uint("user_id", user.ID), zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{
		"token":      token,
		"token_type": "Bearer",
	})
}

// HandleGetProducts lists the active products.
func (h *APIHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.productService.ListActiveProducts(c.UserContext())
	if err != nil {
		logger.FromCtx(c).Error("failed to list products", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return c.JSON(products)
}

// HandleGetOrders lists the caller's orders, newest first.
func (h *APIHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, _ := middleware.APIUserID(c)
	orders, err := h.orderService.ListForUser(c.UserContext(), userID)
	if err != nil {
		logger.FromCtx(c).Error("failed to list orders", zap.Uint("user_id", userID), zap.Error(err))
		return fiber.ErrInternalServerError
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	return c.JSON(out)
}

// HandleGetOrderByID returns one of the caller's orders. Other users' orders
// are reported as missing.
func (h *APIHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, _ := middleware.APIUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrNotFound
	}
	order, err := h.orderService.GetOrderForUser(c.UserContext(), userID, uint(id))
	if err != nil {
		return orderLookupError(c, uint(id), err)
	}
	return c.JSON(newOrderResponse(*order))
}

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

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	limiter     fiber.Handler
}

// NewAuthHandler creates a new AuthHandler. limiter guards the credential posts.
func NewAuthHandler(authService *services.AuthService, limiter fiber.Handler) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/register", h.HandleRegisterForm)
	router.Post("/register", h.limiter, h.HandleRegister)
	router.Get("/login", h.HandleLoginForm)
	router.Post("/login", h.limiter, h.HandleLogin)
	router.Get("/logout", middleware.RequireLogin(), h.HandleLogout)
}

// HandleRegisterForm shows the registration form.
func (h *AuthHandler) HandleRegisterForm(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/dashboard")
	}
	return renderRegister(c, fiber.StatusOK, services.RegisterInput{}, nil)
}

// HandleRegister creates an account. A taken email is sent to the login page
// with a warning rather than shown as a field error.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/dashboard")
	}

	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return renderRegister(c, fiber.StatusUnprocessableEntity, in, map[string]string{"name": "Invalid form submission."})
	}

	_, err := h.authService.Register(c.UserContext(), in)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return redirectWith(c, "/login", sessions.Warning, "Email already registered.")
		case errors.As(err, &verr):
			return renderRegister(c, fiber.StatusUnprocessableEntity, in, verr.Fields)
		default:
			logger.FromCtx(c).Error("registration failed", zap.Error(err))
			return fiber.ErrInternalServerError
		}
	}
	return redirectWith(c, "/login", sessions.Success, "Account created. Please log in.")
}

// HandleLoginForm shows the login form.
func (h *AuthHandler) HandleLoginForm(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/dashboard")
	}
	return renderLogin(c, fiber.StatusOK, "", nil)
}

// HandleLogin binds the session to the user on a credential match.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/dashboard")
	}

	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return renderLogin(c, fiber.StatusUnprocessableEntity, "", map[string]string{"email": "Invalid form submission."})
	}

	user, err := h.authService.Authenticate(c.UserContext(), in)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return renderLogin(c, fiber.StatusUnprocessableEntity, in.Email, verr.Fields)
		}
		logger.FromCtx(c).Info("login failed", zap.Error(err))
		sessions.AddFlash(c, sessions.Danger, "Invalid credentials.")
		return renderLogin(c, fiber.StatusUnauthorized, in.Email, nil)
	}

	if err := sessions.Login(c, user.ID); err != nil {
		return err
	}
	logger.FromCtx(c).Info("user logged in", zap.Uint("user_id", user.ID))
	return redirectWith(c, "/dashboard", sessions.Success, "Logged in successfully.")
}

// HandleLogout ends the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := sessions.Logout(c); err != nil {
		return err
	}
	return redirectWith(c, "/", sessions.Info, "Logged out.")
}

func renderRegister(c *fiber.Ctx, status int, in services.RegisterInput, errs map[string]string) error {
	if errs == nil {
		errs = map[string]string{}
	}
	return render(c, status, "register", fiber.Map{
		"Title":  "Register",
		"Form":   fiber.Map{"Name": in.Name, "Email": in.Email},
		"Errors": errs,
	})
}

func renderLogin(c *fiber.Ctx, status int, email string, errs map[string]string) error {
	if errs == nil {
		errs = map[string]string{}
	}
	return render(c, status, "login", fiber.Map{
		"Title":  "Login",
		"Form":   fiber.Map{"Email": email},
		"Errors": errs,
	})
}

// Package sessions keeps the signed-in user, the cart and pending flash
// messages in a server-side fiber session.
package sessions

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/services"
)

const (
	CookieName = "session_id"

	localsKey  = "session"
	keyUserID  = "user_id"
	keyCart    = "cart"
	keyFlashes = "_flashes"
)

// Flash categories.
const (
	Success = "success"
	Info    = "info"
	Warning = "warning"
	Danger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Config controls the session cookie.
type Config struct {
	TTL          time.Duration
	CookieSecure bool
	Storage      fiber.Storage // nil selects in-memory storage
}

// Manager owns the session store.
type Manager struct {
	store *session.Store
}

// New creates a Manager. Values stored in the session are gob encoded, so
// the cart and flash types are registered here.
func New(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	store := session.New(session.Config{
		Expiration:     cfg.TTL,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	store.RegisterType(services.Cart{})
	store.RegisterType([]Flash{})
	return &Manager{store: store}
}

// Middleware loads the session before the handler runs and saves it once
// afterwards. fiber releases a session on Save, so handlers must not save it
// themselves.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.store.Get(c)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		c.Locals(localsKey, sess)

		err = c.Next()

		// anonymous visitors who stored nothing get no cookie
		if sess.Fresh() && len(sess.Keys()) == 0 {
			return err
		}
		if saveErr := sess.Save(); saveErr != nil {
			logger.FromCtx(c).Error("failed to save session", zap.Error(saveErr))
			if err == nil {
				err = saveErr
			}
		}
		return err
	}
}

func current(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localsKey).(*session.Session)
	return sess
}

// UserID returns the signed-in user's id.
func UserID(c *fiber.Ctx) (uint, bool) {
	sess := current(c)
	if sess == nil {
		return 0, false
	}
	id, ok := sess.Get(keyUserID).(uint)
	return id, ok && id > 0
}

// Login binds the session to userID under a fresh session id.
func Login(c *fiber.Ctx, userID uint) error {
	sess := current(c)
	if sess == nil {
		return fmt.Errorf("no session in context")
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(keyUserID, userID)
	return nil
}

// Logout drops every session value, the cart included, and issues a new id.
func Logout(c *fiber.Ctx) error {
	sess := current(c)
	if sess == nil {
		return nil
	}
	if err := sess.Reset(); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// Cart returns the session cart, or an empty one. Changes are kept only
// after SaveCart.
func Cart(c *fiber.Ctx) services.Cart {
	sess := current(c)
	if sess == nil {
		return services.Cart{}
	}
	if cart, ok := sess.Get(keyCart).(services.Cart); ok && cart != nil {
		return cart
	}
	return services.Cart{}
}

// SaveCart writes cart back into the session.
func SaveCart(c *fiber.Ctx, cart services.Cart) {
	if sess := current(c); sess != nil {
		sess.Set(keyCart, cart)
	}
}

// AddFlash queues a message for the next rendered page.
func AddFlash(c *fiber.Ctx, category, message string) {
	sess := current(c)
	if sess == nil {
		return
	}
	flashes, _ := sess.Get(keyFlashes).([]Flash)
	sess.Set(keyFlashes, append(flashes, Flash{Category: category, Message: message}))
}

// Flashes returns and clears the queued messages.
func Flashes(c *fiber.Ctx) []Flash {
	sess := current(c)
	if sess == nil {
		return nil
	}
	flashes, _ := sess.Get(keyFlashes).([]Flash)
	if len(flashes) > 0 {
		sess.Delete(keyFlashes)
	}
	return flashes
}

package main

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mfgdash/internal/config"
	"mfgdash/internal/database"
	"mfgdash/internal/handlers"
	"mfgdash/internal/logger"
	"mfgdash/internal/middleware"
	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
	"mfgdash/internal/services"
	"mfgdash/internal/sessions"
	"mfgdash/internal/views"
	"mfgdash/pkg/rabbitmq"
)

const csrfCookieName = "csrf_"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	zlog := logger.L()

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}

	if cfg.SeedData {
		if err := seed(context.Background(), cfg, db); err != nil {
			zlog.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// --- Order events ---
	// Without a broker the app runs with publishing switched off.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.AMQPURL, Queue: cfg.AMQPQueue})
		if err != nil {
			zlog.Warn("order events disabled", zap.Error(err))
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	app := NewApp(cfg, db, publisher)

	// --- Start HTTP Server ---
	zlog.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.AppEnv))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during fiber shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}

// NewApp wires repositories, services and handlers into a fiber app.
// publisher may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.Publisher) *fiber.App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(productRepo)
	orderService := services.NewOrderService(orderRepo, cartService, publisher)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:               "mfgdash",
		Views:                 views.New(),
		ErrorHandler:          handlers.ErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.RequestID())
	app.Use(logger.AccessLog())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key:    cookieKey(cfg.SecretKey),
		Except: []string{csrfCookieName},
	}))
	app.Use(sessions.New(sessions.Config{TTL: cfg.SessionTTL, CookieSecure: cfg.CookieSecure}).Middleware())
	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:_csrf",
			CookieName:     csrfCookieName,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			Expiration:     cfg.SessionTTL,
			ContextKey:     handlers.CSRFContextKey,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/")
			},
		}))
	}
	app.Use(middleware.LoadUser(authService))

	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst).Handler()

	// --- Routes ---
	handlers.NewPageHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, limiter).RegisterRoutes(app)
	handlers.NewProductHandler(productService, cartService).RegisterRoutes(app)
	handlers.NewCartHandler(cartService).RegisterRoutes(app)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app)
	handlers.NewAdminHandler(orderService).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	handlers.NewAPIHandler(authService, productService, orderService, limiter).RegisterRoutes(apiV1)

	return app
}

// seed creates the bootstrap accounts and the default catalog.
func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	return services.Seed(ctx,
		repositories.NewGORMUserRepository(db),
		repositories.NewGORMProductRepository(db),
		seedAccounts(cfg),
	)
}

func seedAccounts(cfg *config.Config) []services.SeedAccount {
	return []services.SeedAccount{
		{Email: cfg.AdminEmail, Name: "Admin", Password: cfg.AdminPassword, Role: models.RoleAdmin},
		{Email: "user@example.com", Name: "Regular User", Password: "UserPass123!", Role: models.RoleUser},
	}
}

// cookieKey derives the AES-256 key encryptcookie expects from SECRET_KEY.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

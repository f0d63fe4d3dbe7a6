package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported DATABASE_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every runtime setting of the dashboard.
type Config struct {
	AppEnv  string
	AppPort string

	SecretKey    string
	CSRFEnabled  bool
	SessionTTL   time.Duration
	CookieSecure bool

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret string
	TokenTTL  time.Duration

	AMQPURL   string
	AMQPQueue string

	SeedData      bool
	AdminEmail    string
	AdminPassword string

	LoginRateLimit float64
	LoginRateBurst int
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("SECRET_KEY", "dev-secret-change-me")
	v.SetDefault("CSRF_ENABLED", true)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "instance/app.db")
	v.SetDefault("JWT_SECRET", "dev-jwt-secret")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_QUEUE", "order_queue")
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "AdminPass123!")
	v.SetDefault("LOGIN_RATE_LIMIT", 2)
	v.SetDefault("LOGIN_RATE_BURST", 5)
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		AppPort:        v.GetString("APP_PORT"),
		SecretKey:      v.GetString("SECRET_KEY"),
		CSRFEnabled:    v.GetBool("CSRF_ENABLED"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		AMQPURL:        v.GetString("AMQP_URL"),
		AMQPQueue:      v.GetString("AMQP_QUEUE"),
		SeedData:       v.GetBool("SEED_DATA"),
		AdminEmail:     strings.ToLower(v.GetString("ADMIN_EMAIL")),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		LoginRateLimit: v.GetFloat64("LOGIN_RATE_LIMIT"),
		LoginRateBurst: v.GetInt("LOGIN_RATE_BURST"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

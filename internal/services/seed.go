package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mfgdash/internal/logger"
	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
)

// SeedAccount is a user created at bootstrap when missing.
type SeedAccount struct {
	Email    string
	Name     string
	Password string
	Role     models.Role
}

// DefaultCatalog is the product list loaded into an empty catalog.
func DefaultCatalog() []models.Product {
	mk := func(sku, name, desc, price string) models.Product {
		return models.Product{SKU: sku, Name: name, Description: desc, UnitPrice: decimal.RequireFromString(price), Active: true}
	}
	return []models.Product{
		mk("P-1001", "Aluminum Bracket", "CNC-milled bracket", "12.50"),
		mk("P-1002", "Steel Gear", "Hardened gear", "34.00"),
		mk("P-1003", "Plastic Housing", "Injection-molded housing", "8.99"),
		mk("P-1004", "Copper Coil", "Precision-wound coil", "22.75"),
		mk("P-1005", "Rubber Gasket", "High-temp gasket", "3.50"),
	}
}

// Seed creates missing accounts and fills an empty catalog. It is safe to run on every start.
func Seed(ctx context.Context, users repositories.UserRepository, products repositories.ProductRepository, accounts []SeedAccount) error {
	for _, acc := range accounts {
		_, err := users.GetByEmail(ctx, acc.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("seed: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: failed to hash password: %w", err)
		}
		user := &models.User{Email: acc.Email, Name: acc.Name, PasswordHash: string(hash), Role: acc.Role}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.L().Info("seeded user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	}

	n, err := products.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		return nil
	}
	catalog := DefaultCatalog()
	for i := range catalog {
		if err := products.Create(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	logger.L().Info("seeded catalog", zap.Int("products", len(catalog)))
	return nil
}

package repositories

import (
	"context"
	"time"

	"mfgdash/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order and all of its items in one transaction.
	Create(ctx context.Context, order *models.Order) error
	// GetByID loads the order with its items, their products and the owning user.
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, at time.Time) error
}

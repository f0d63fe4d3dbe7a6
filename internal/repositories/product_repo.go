package repositories

import (
	"context"

	"mfgdash/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// GetActiveByIDs returns the active products among ids, keyed by id. Unknown ids are skipped.
	GetActiveByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
}

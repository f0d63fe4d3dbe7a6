package services

import (
	"context"

	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
)

// ProductService handles catalog browsing.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListActiveProducts returns every active product in storage order.
func (s *ProductService) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListActive(ctx)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
)

// CartLine is one resolved cart entry.
type CartLine struct {
	Product  models.Product
	Quantity int
	Subtotal decimal.Decimal
}

// CartView is the cart joined against the catalog.
type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
}

// Empty reports whether no line resolved to an active product.
func (v *CartView) Empty() bool { return len(v.Lines) == 0 }

// CartService mutates session carts and prices them against the catalog.
type CartService struct {
	products repositories.ProductRepository
	validate *validator.Validate
}

// NewCartService creates a new CartService.
func NewCartService(products repositories.ProductRepository) *CartService {
	return &CartService{
		products: products,
		validate: newValidator(),
	}
}

// Add puts in.Quantity (1..100) of an active product into the cart,
// accumulating onto any existing line.
func (s *CartService) Add(ctx context.Context, cart Cart, in AddToCartInput) error {
	if err := s.validate.Struct(in); err != nil {
		return newValidationError(err)
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("product %d: %w", in.ProductID, ErrProductUnavailable)
		}
		return err
	}
	if !product.Active {
		return fmt.Errorf("product %s: %w", product.SKU, ErrProductUnavailable)
	}

	cart.Add(product.ID, in.Quantity)
	return nil
}

// Remove drops a product line; unknown ids are ignored.
func (s *CartService) Remove(cart Cart, productID string) {
	cart.Remove(productID)
}

// View resolves the cart against active products. Lines whose product is
// gone or deactivated are left out of both the lines and the total.
func (s *CartService) View(ctx context.Context, cart Cart) (*CartView, error) {
	view := &CartView{Total: decimal.Zero}
	ids := cart.ProductIDs()
	if len(ids) == 0 {
		return view, nil
	}

	products, err := s.products.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	total := decimal.Zero
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			continue
		}
		qty := cart.Quantity(id)
		sub := p.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		view.Lines = append(view.Lines, CartLine{Product: p, Quantity: qty, Subtotal: sub})
		total = total.Add(sub)
	}
	view.Total = total.Round(2)
	return view, nil
}

package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
	"mfgdash/internal/services"
)

func product(id uint, sku, price string, active bool) models.Product {
	return models.Product{ID: id, SKU: sku, Name: sku, UnitPrice: decimal.RequireFromString(price), Active: active}
}

func TestCart(t *testing.T) {
	cart := services.Cart{}
	cart.Add(1, 2)
	cart.Add(1, 3)
	cart.Add(2, 1)
	assert.Equal(t, 5, cart.Quantity(1))
	assert.Equal(t, 2, cart.Len())

	cart.Remove("2")
	cart.Remove("2")
	cart.Remove("999")
	assert.Equal(t, 1, cart.Len())

	cart["junk"] = 4
	cart["0"] = 1
	cart["7"] = 0
	assert.Equal(t, []uint{1}, cart.ProductIDs())

	cart.Clear()
	assert.Zero(t, cart.Len())
}

func TestCartService_Add(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewCartService(mockRepo)

	gear := product(2, "P-1002", "34.00", true)
	retired := product(3, "P-1003", "8.99", false)
	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(&gear, nil)
	mockRepo.On("GetByID", mock.Anything, uint(3)).Return(&retired, nil)
	mockRepo.On("GetByID", mock.Anything, uint(99)).
		Return(nil, fmt.Errorf("failed to get product by ID 99: %w", repositories.ErrNotFound))

	cart := services.Cart{}
	require.NoError(t, service.Add(ctx, cart, services.AddToCartInput{ProductID: 2, Quantity: 1}))
	require.NoError(t, service.Add(ctx, cart, services.AddToCartInput{ProductID: 2, Quantity: 100}))
	assert.Equal(t, 101, cart.Quantity(2), "quantities accumulate")

	for _, qty := range []int{0, -1, 101} {
		err := service.Add(ctx, cart, services.AddToCartInput{ProductID: 2, Quantity: qty})
		var verr *services.ValidationError
		require.True(t, errors.As(err, &verr), "quantity %d", qty)
		assert.Contains(t, verr.Fields, "quantity")
	}

	err := service.Add(ctx, cart, services.AddToCartInput{ProductID: 3, Quantity: 1})
	assert.ErrorIs(t, err, services.ErrProductUnavailable)

	err = service.Add(ctx, cart, services.AddToCartInput{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, services.ErrProductUnavailable)

	assert.Equal(t, 1, cart.Len())
}

func TestCartService_View(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewCartService(mockRepo)

	bracket := product(1, "P-1001", "12.50", true)
	gear := product(2, "P-1002", "34.00", true)

	// product 3 was deactivated and 4 deleted: neither comes back
	mockRepo.On("GetActiveByIDs", mock.Anything, []uint{1, 2, 3, 4}).
		Return(map[uint]models.Product{1: bracket, 2: gear}, nil).Once()

	cart := services.Cart{"1": 2, "2": 1, "3": 5, "4": 1}
	view, err := service.View(ctx, cart)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, "P-1001", view.Lines[0].Product.SKU)
	assert.Equal(t, "25.00", view.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "59.00", view.Total.StringFixed(2))
	assert.Equal(t, 4, cart.Len(), "viewing never mutates the cart")

	empty, err := service.View(ctx, services.Cart{})
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.True(t, empty.Total.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestCartService_ViewRoundsTotal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCartService(mockRepo)

	mockRepo.On("GetActiveByIDs", mock.Anything, []uint{1}).
		Return(map[uint]models.Product{1: product(1, "P-1", "0.333", true)}, nil)

	view, err := service.View(context.Background(), services.Cart{"1": 3})
	require.NoError(t, err)
	assert.Equal(t, "1.00", view.Total.StringFixed(2))
}

func TestCartService_Remove(t *testing.T) {
	service := services.NewCartService(new(MockProductRepository))
	cart := services.Cart{"1": 2}
	service.Remove(cart, "1")
	service.Remove(cart, "1")
	assert.Zero(t, cart.Len())
}

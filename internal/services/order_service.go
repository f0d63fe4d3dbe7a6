package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mfgdash/internal/logger"
	"mfgdash/internal/models"
	"mfgdash/internal/repositories"
)

// OrderService handles checkout and the admin status workflow.
type OrderService struct {
	orderRepo repositories.OrderRepository
	carts     *CartService
	publisher Publisher // nil when no broker is configured
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, carts *CartService, publisher Publisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		carts:     carts,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Review prices the cart for confirmation; unresolvable lines are dropped.
func (s *OrderService) Review(ctx context.Context, cart Cart) (*CartView, error) {
	if cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	view, err := s.carts.View(ctx, cart)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return nil, ErrEmptyCart
	}
	return view, nil
}

// PlaceOrder turns the cart into a Pending order whose items snapshot the
// current unit prices. The order and its items are committed together; on
// success the cart is cleared.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, cart Cart) (*models.Order, error) {
	view, err := s.Review(ctx, cart)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID: userID,
		Status: models.StatusPending,
		Items:  make([]models.OrderItem, 0, len(view.Lines)),
	}
	for _, line := range view.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.UnitPrice,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	cart.Clear()

	logger.L().Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("total", order.Total().StringFixed(2)),
	)
	s.publish(EventOrderCreated, order)
	return order, nil
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// GetOrder loads one order with items and owner.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// GetOrderForUser loads one order only if userID owns it; others' orders are reported as not found.
func (s *OrderService) GetOrderForUser(ctx context.Context, userID, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %d: %w", id, repositories.ErrNotFound)
	}
	return order, nil
}

// UpdateStatus sets the order's status from a vocabulary label and refreshes
// updated_at. Any status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, label string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := models.ParseOrderStatus(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, label)
	}

	now := s.now()
	if err := s.orderRepo.UpdateStatus(ctx, id, status, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order status for order %d: %w", id, err)
	}

	previous := order.Status
	order.Status = status
	order.UpdatedAt = now

	logger.L().Info("order status updated",
		zap.Uint("order_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	s.publish(EventOrderStatusChanged, order)
	return order, nil
}

// publish is best effort: a broker failure never undoes a committed order.
func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(eventType, newOrderEvent(order, s.now())); err != nil {
		logger.L().Warn("failed to publish order event",
			zap.String("event", eventType),
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}
}

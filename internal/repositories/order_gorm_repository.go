package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mfgdash/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create writes the order row first, then its items, and commits once.
// Any failure rolls the whole transaction back.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	items := order.Items
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "User").Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", translate(err))
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Omit("Product").Create(&items[i]).Error; err != nil {
				return fmt.Errorf("create order item for product %d: %w", items[i].ProductID, translate(err))
			}
		}
		return nil
	})
	if err != nil {
		order.ID = 0
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, translate(err))
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.newestFirst(ctx).Where("user_id = ?", userID).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// ListAll returns every order newest first, with the owning user.
func (r *GORMOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.newestFirst(ctx).Preload("User").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus overwrites status and updated_at.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d not found for status update: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Order("created_at DESC").
		Order("id DESC")
}

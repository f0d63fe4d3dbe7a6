package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the label stored in orders.status.
type OrderStatus string

const (
	StatusPending      OrderStatus = "Pending"
	StatusInProduction OrderStatus = "In Production"
	StatusShipped      OrderStatus = "Shipped"
	StatusCompleted    OrderStatus = "Completed"
	StatusCanceled     OrderStatus = "Canceled"
)

// OrderStatuses lists the status vocabulary in pipeline order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusInProduction,
	StatusShipped,
	StatusCompleted,
	StatusCanceled,
}

// ParseOrderStatus matches label against the vocabulary, ignoring surrounding whitespace.
func ParseOrderStatus(label string) (OrderStatus, error) {
	label = strings.TrimSpace(label)
	for _, s := range OrderStatuses {
		if string(s) == label {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", label)
}

func (s OrderStatus) String() string { return string(s) }

// Order is a placed checkout owned by one user.
type Order struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"not null;index"`
	User      User        `json:"-"`
	Status    OrderStatus `json:"status" gorm:"size:32;not null"`
	Items     []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Total sums the item snapshots, rounded to cents. Items must be loaded.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

// OrderItem is an immutable line of an order. UnitPrice is copied from the
// product at checkout and never follows later catalog changes.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Product   Product         `json:"product" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity >= 1"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
}

// Subtotal is UnitPrice × Quantity.
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// All lists the models handled by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &Product{}, &Order{}, &OrderItem{}}
}

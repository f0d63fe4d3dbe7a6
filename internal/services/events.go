package services

import (
	"time"

	"mfgdash/internal/models"
)

// Event types published on the order queue.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Publisher delivers order events to a broker. pkg/rabbitmq implements it.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
}

// OrderEvent is the JSON body of an order event.
type OrderEvent struct {
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	Status     string    `json:"status"`
	Total      string    `json:"total"`
	ItemCount  int       `json:"item_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newOrderEvent(o *models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		Total:      o.Total().StringFixed(2),
		ItemCount:  len(o.Items),
		OccurredAt: at,
	}
}

package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the cart context.
const (
	TopicCartUpdated = "cart.updated"
	TopicCartDeleted = "cart.deleted"
)

// CartUpdatedEvent is published in the same transaction as every cart save.
type CartUpdatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // dedup key for consumers
	Version    int       `json:"version"`
	CartID     uuid.UUID `json:"cart_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ItemCount  int       `json:"item_count"`
	TotalValue string    `json:"total_value"` // decimal string, e.g. "59.97"
	OccurredAt time.Time `json:"occurred_at"`
}

// CartDeletedEvent is published when a cart is removed (e.g. after abandonment).
type CartDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	CartID     uuid.UUID `json:"cart_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

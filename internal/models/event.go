package models

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message published to the notification pipeline after a
// local write has committed.
type OrderEvent struct {
	Type           string    `json:"type"`
	ShopDomain     string    `json:"shop_domain"`
	Order          CodOrder  `json:"order"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

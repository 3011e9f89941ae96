package models

import (
	"time"
)

// Order lifecycle. Transitions only move forward:
// pending -> confirmed -> delivered, pending/confirmed -> cancelled.
// delivered and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type CodOrder struct {
	ID          uint   `json:"id"           gorm:"primary_key"`
	ShopDomain  string `json:"shop_domain"  gorm:"type:varchar(255);index;not null" validate:"required"`
	OrderNumber string `json:"order_number" gorm:"type:varchar(32)"`

	ProductID    string  `json:"product_id"    validate:"required"`
	VariantID    string  `json:"variant_id"`
	ProductTitle string  `json:"product_title"`
	ProductImage string  `json:"product_image"`
	Quantity     int     `json:"quantity"      validate:"gte=1"`
	UnitPrice    float64 `json:"unit_price"    validate:"gte=0"`
	Subtotal     float64 `json:"subtotal"      validate:"gte=0"`
	DeliveryFee  float64 `json:"delivery_fee"  validate:"gte=0"`
	Total        float64 `json:"total"         validate:"gte=0"`

	CustomerName  string `json:"customer_name"  validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required,codphone"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`

	DeliveryAddress    string `json:"delivery_address"    validate:"required"`
	DeliveryCity       string `json:"delivery_city"       validate:"required"`
	DeliveryPostalCode string `json:"delivery_postal_code"`
	OrderNotes         string `json:"order_notes"`

	Status        string `json:"status"         gorm:"type:varchar(16);index" validate:"oneof=pending confirmed delivered cancelled"`
	PaymentStatus string `json:"payment_status" gorm:"type:varchar(16)"      validate:"oneof=pending paid"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	ShopifyOrderID *int64 `json:"shopify_order_id,omitempty" gorm:"unique_index"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

func (CodOrder) TableName() string { return "cod_orders" }

// CanTransition reports whether moving from the current status to next is
// legal. Terminal states never transition.
func (o CodOrder) CanTransition(next string) bool {
	switch o.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusDelivered || next == StatusCancelled
	default:
		return false
	}
}

func (o CodOrder) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

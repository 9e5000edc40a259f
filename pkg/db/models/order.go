package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an immutable snapshot taken from a cart at submission time.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID        uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	DiscountCode  *string         `gorm:"column:discount_code"`
	SubtotalCents int             `gorm:"column:subtotal_cents;not null"`
	DiscountCents int             `gorm:"column:discount_cents;not null;default:0"`
	TotalCents    int             `gorm:"column:total_cents;not null"`
	LineItems     []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

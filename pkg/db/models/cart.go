package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the server-side cart resource. It outlives order submission: the
// client keeps reusing the same cart id after checkout, so converting a cart
// into an order clears its items but never deletes the row.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

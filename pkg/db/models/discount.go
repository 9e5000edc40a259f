package models

import (
	"time"

	"github.com/arvellum/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Discount is a code-keyed price adjustment. For PERCENTAGE the amount is a
// 0-100 percentage of the subtotal; for FLAT it is a currency amount.
type Discount struct {
	Code      string             `gorm:"column:code;primaryKey"`
	Type      enums.DiscountType `gorm:"column:type;not null"`
	Amount    decimal.Decimal    `gorm:"column:amount;type:numeric(10,2);not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

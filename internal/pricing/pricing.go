package pricing

import (
	"github.com/arvellum/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Discount is the price adjustment applied to a subtotal.
type Discount struct {
	Type   enums.DiscountType
	Amount decimal.Decimal
}

// Line is one (unit price, quantity) pair entering the subtotal.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Round2 rounds to two decimal places, half away from zero. This is a
// deliberate policy choice; it is not banker's rounding.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromCents converts an integer cent amount into a decimal currency value.
func FromCents(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Shift(-2)
}

// ToCents converts a decimal currency value into integer cents.
func ToCents(d decimal.Decimal) int {
	return int(d.Shift(2).Round(0).IntPart())
}

// Subtotal sums unit price times quantity over the given lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// DiscountAmount computes the value a discount takes off the subtotal.
// PERCENTAGE amounts are a 0-100 share of the subtotal, rounded to two
// decimals; FLAT amounts apply as-is.
func DiscountAmount(subtotal decimal.Decimal, d *Discount) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	switch d.Type {
	case enums.DiscountTypePercentage:
		return Round2(subtotal.Mul(d.Amount).Div(oneHundred))
	case enums.DiscountTypeFlat:
		return d.Amount
	default:
		return decimal.Zero
	}
}

// Total is the discounted grand total, rounded to two decimals.
func Total(subtotal, discountAmount decimal.Decimal) decimal.Decimal {
	return Round2(subtotal.Sub(discountAmount))
}

package enums

import "fmt"

// DiscountType distinguishes percentage-of-subtotal codes from flat amounts.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFlat       DiscountType = "FLAT"
)

func (d DiscountType) String() string {
	return string(d)
}

func ParseDiscountType(value string) (DiscountType, error) {
	switch DiscountType(value) {
	case DiscountTypePercentage, DiscountTypeFlat:
		return DiscountType(value), nil
	default:
		return "", fmt.Errorf("unknown discount type %q", value)
	}
}

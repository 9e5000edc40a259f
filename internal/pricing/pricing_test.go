package pricing

import (
	"testing"

	"github.com/arvellum/storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtotalTwoOfSameProduct(t *testing.T) {
	lines := []Line{{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2}}
	assert.True(t, Subtotal(lines).Equal(decimal.RequireFromString("39.98")))
}

func TestPercentageDiscountRoundsHalfAwayFromZero(t *testing.T) {
	// 39.98 * 10% = 3.998 -> 4.00
	subtotal := decimal.RequireFromString("39.98")
	d := &Discount{Type: enums.DiscountTypePercentage, Amount: decimal.NewFromInt(10)}

	amount := DiscountAmount(subtotal, d)
	require.True(t, amount.Equal(decimal.RequireFromString("4.00")), "got %s", amount)

	total := Total(subtotal, amount)
	assert.True(t, total.Equal(decimal.RequireFromString("35.98")), "got %s", total)
}

func TestFlatDiscountAppliesUnrounded(t *testing.T) {
	subtotal := decimal.RequireFromString("39.98")
	d := &Discount{Type: enums.DiscountTypeFlat, Amount: decimal.NewFromInt(5)}

	amount := DiscountAmount(subtotal, d)
	require.True(t, amount.Equal(decimal.NewFromInt(5)))

	total := Total(subtotal, amount)
	assert.True(t, total.Equal(decimal.RequireFromString("34.98")), "got %s", total)
}

func TestNilDiscountIsZero(t *testing.T) {
	assert.True(t, DiscountAmount(decimal.RequireFromString("10.00"), nil).IsZero())
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	cases := map[string]string{
		"3.998":  "4.00",
		"2.005":  "2.01",
		"-2.005": "-2.01",
		"1.994":  "1.99",
	}
	for in, want := range cases {
		got := Round2(decimal.RequireFromString(in))
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "Round2(%s) = %s, want %s", in, got, want)
	}
}

func TestCentsRoundTrip(t *testing.T) {
	require.Equal(t, 1999, ToCents(FromCents(1999)))
	assert.True(t, FromCents(1999).Equal(decimal.RequireFromString("19.99")))
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		name   string
		pieces int64
		price  string
		want   string
	}{
		{"simple", 3, "10.00", "30"},
		{"zero pieces", 0, "99.99", "0"},
		{"fractional price", 7, "0.1", "0.7"},
		{"no rounding", 3, "3.333", "9.999"},
		{"negative is not rejected", -2, "5", "-10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LineTotal(tc.pieces, d(tc.price))
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestSubtotal(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
	assert.True(t, Subtotal([]ItemInput{}).IsZero())

	items := []ItemInput{
		{Pieces: 3, PricePerUnit: d("10.00"), Weight: d("1.25")},
		{Pieces: 2, PricePerUnit: d("0.15")},
	}
	want := LineTotal(3, d("10.00")).Add(LineTotal(2, d("0.15")))
	assert.True(t, Subtotal(items).Equal(want))
	assert.True(t, Subtotal(items).Equal(d("30.3")))
}

func TestTotalAmount(t *testing.T) {
	items := []ItemInput{{Pieces: 3, PricePerUnit: d("10.00")}}
	got := TotalAmount(items, d("5.00"), d("2.50"))
	assert.True(t, got.Equal(d("37.50")), "got %s", got)

	assert.True(t, TotalAmount(nil, d("1"), d("2")).Equal(d("3")))
}

func TestTotalsAvoidFloatDrift(t *testing.T) {
	items := []ItemInput{
		{Pieces: 1, PricePerUnit: d("0.1")},
		{Pieces: 1, PricePerUnit: d("0.2")},
	}
	assert.Equal(t, "0.3", Subtotal(items).String())
}

package domain

import "github.com/shopspring/decimal"

// LineTotal returns pieces multiplied by the unit price. Pricing is per piece,
// weight does not take part.
func LineTotal(pieces int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(pieces).Mul(unitPrice)
}

// Subtotal sums the line totals of items. An empty list yields zero.
func Subtotal(items []ItemInput) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item.Pieces, item.PricePerUnit))
	}
	return sum
}

// TotalAmount is the subtotal plus shipping and other charges.
func TotalAmount(items []ItemInput, shipping, other decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Add(shipping).Add(other)
}

// Totals groups the derived amounts of a form.
type Totals struct {
	LineTotals  []decimal.Decimal `json:"lineTotals"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	Shipping    decimal.Decimal   `json:"shippingCharges"`
	Other       decimal.Decimal   `json:"otherCharges"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
}

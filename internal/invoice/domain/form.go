package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTerms is the payment term a new invoice starts with.
const DefaultTerms = "COD"

// ItemInput is an invoice line as entered by a user.
type ItemInput struct {
	StockID      string          `json:"stockId"`
	Description  string          `json:"description" binding:"required"`
	Pieces       int64           `json:"pieces" binding:"gte=0"`
	Weight       decimal.Decimal `json:"weight" binding:"gte=0"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit" binding:"gte=0"`
}

// FormData is the user-entered content of an invoice. It carries no
// identifiers and no derived totals.
type FormData struct {
	Date            string          `json:"date" binding:"required"`
	Terms           string          `json:"terms"`
	CustomerName    string          `json:"customerName" binding:"required"`
	CustomerAddress string          `json:"customerAddress" binding:"required"`
	CustomerCity    string          `json:"customerCity" binding:"required"`
	CustomerPhone   string          `json:"customerPhone"`
	Items           []ItemInput     `json:"items" binding:"required,min=1,dive"`
	ShippingCharges decimal.Decimal `json:"shippingCharges" binding:"gte=0"`
	OtherCharges    decimal.Decimal `json:"otherCharges" binding:"gte=0"`
}

// NewFormData returns the blank form shown when creating an invoice.
func NewFormData(now time.Time) FormData {
	return FormData{
		Date:            now.Format(DateLayout),
		Terms:           DefaultTerms,
		Items:           []ItemInput{{}},
		ShippingCharges: decimal.Zero,
		OtherCharges:    decimal.Zero,
	}
}

// FormFromInvoice prefills a form for editing an existing invoice.
func FormFromInvoice(inv Invoice) FormData {
	items := make([]ItemInput, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, ItemInput{
			StockID:      item.StockID,
			Description:  item.Description,
			Pieces:       item.Pieces,
			Weight:       item.Weight,
			PricePerUnit: item.PricePerUnit,
		})
	}
	date := ""
	if !inv.Date.IsZero() {
		date = inv.Date.Format(DateLayout)
	}
	return FormData{
		Date:            date,
		Terms:           inv.Terms,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerCity:    inv.CustomerCity,
		CustomerPhone:   inv.CustomerPhone,
		Items:           items,
		ShippingCharges: inv.ShippingCharges,
		OtherCharges:    inv.OtherCharges,
	}
}

// AddItem appends a blank line.
func (f *FormData) AddItem() {
	f.Items = append(f.Items, ItemInput{})
}

// RemoveItem drops the line at index i. The last remaining line is never
// removed; false is returned when nothing changed.
func (f *FormData) RemoveItem(i int) bool {
	if len(f.Items) <= 1 || i < 0 || i >= len(f.Items) {
		return false
	}
	f.Items = append(f.Items[:i:i], f.Items[i+1:]...)
	return true
}

// Totals computes the live totals shown next to the form.
func (f FormData) Totals() Totals {
	lines := make([]decimal.Decimal, 0, len(f.Items))
	for _, item := range f.Items {
		lines = append(lines, LineTotal(item.Pieces, item.PricePerUnit))
	}
	return Totals{
		LineTotals:  lines,
		Subtotal:    Subtotal(f.Items),
		Shipping:    f.ShippingCharges,
		Other:       f.OtherCharges,
		TotalAmount: TotalAmount(f.Items, f.ShippingCharges, f.OtherCharges),
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a persisted invoice as the rest of the application sees it.
// Money and weight fields are exact decimals; rounding happens only when
// an invoice is presented.
type Invoice struct {
	ID              string          `json:"id"`
	InvoiceNo       int64           `json:"invoiceNo"`
	Date            time.Time       `json:"date"`
	Terms           string          `json:"terms"`
	CustomerName    string          `json:"customerName"`
	CustomerAddress string          `json:"customerAddress"`
	CustomerCity    string          `json:"customerCity"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	Items           []InvoiceItem   `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	OtherCharges    decimal.Decimal `json:"otherCharges"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// InvoiceItem is one line of an invoice. Weight is in carats.
type InvoiceItem struct {
	ID           string          `json:"id"`
	StockID      string          `json:"stockId,omitempty"`
	Description  string          `json:"description"`
	Pieces       int64           `json:"pieces"`
	Weight       decimal.Decimal `json:"weight"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Total        decimal.Decimal `json:"total"`
}

// DateLayout is the calendar date format used by forms and the backend.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date into UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

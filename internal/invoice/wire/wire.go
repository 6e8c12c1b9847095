// Package wire holds the JSON shapes exchanged with the invoice backend and
// the mapping between them and the domain model.
package wire

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/format"
)

type Invoice struct {
	ID            string   `json:"_id,omitempty"`
	InvoiceNumber string   `json:"invoiceNumber"`
	Date          string   `json:"date"`
	Terms         string   `json:"terms"`
	Customer      Customer `json:"customer"`
	Items         []Item   `json:"items"`
	Charges       Charges  `json:"charges"`
}

type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

type Item struct {
	ID           string `json:"_id,omitempty"`
	StockID      string `json:"stockId"`
	Description  string `json:"description"`
	Pieces       int64  `json:"pieces"`
	Weight       Amount `json:"weight"`
	PricePerUnit Amount `json:"pricePerUnit"`
	Total        Amount `json:"total"`
}

type Charges struct {
	Subtotal    Amount `json:"subtotal"`
	Shipping    Amount `json:"shipping"`
	Other       Amount `json:"other"`
	TotalAmount Amount `json:"totalAmount"`
}

// ErrorBody is the JSON body the backend sends with a rejected request.
type ErrorBody struct {
	Message string `json:"message"`
}

// FromForm builds the payload for a create or replace request. Line totals
// and charges are always recomputed from pieces and unit prices.
func FromForm(form domain.FormData, invoiceNo int64) Invoice {
	items := make([]Item, 0, len(form.Items))
	for _, in := range form.Items {
		items = append(items, Item{
			StockID:      in.StockID,
			Description:  in.Description,
			Pieces:       in.Pieces,
			Weight:       A(in.Weight),
			PricePerUnit: A(in.PricePerUnit),
			Total:        A(domain.LineTotal(in.Pieces, in.PricePerUnit)),
		})
	}
	return Invoice{
		InvoiceNumber: format.FormatInvoiceNumber(invoiceNo),
		Date:          strings.TrimSpace(form.Date),
		Terms:         form.Terms,
		Customer: Customer{
			Name:    form.CustomerName,
			Address: form.CustomerAddress,
			City:    form.CustomerCity,
			Phone:   form.CustomerPhone,
		},
		Items: items,
		Charges: Charges{
			Subtotal:    A(domain.Subtotal(form.Items)),
			Shipping:    A(form.ShippingCharges),
			Other:       A(form.OtherCharges),
			TotalAmount: A(domain.TotalAmount(form.Items, form.ShippingCharges, form.OtherCharges)),
		},
	}
}

// FromDomain renders a persisted invoice, identifiers included.
func FromDomain(inv domain.Invoice) Invoice {
	items := make([]Item, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, Item{
			ID:           it.ID,
			StockID:      it.StockID,
			Description:  it.Description,
			Pieces:       it.Pieces,
			Weight:       A(it.Weight),
			PricePerUnit: A(it.PricePerUnit),
			Total:        A(it.Total),
		})
	}
	return Invoice{
		ID:            inv.ID,
		InvoiceNumber: format.FormatInvoiceNumber(inv.InvoiceNo),
		Date:          inv.Date.UTC().Format(domain.DateLayout),
		Terms:         inv.Terms,
		Customer: Customer{
			Name:    inv.CustomerName,
			Address: inv.CustomerAddress,
			City:    inv.CustomerCity,
			Phone:   inv.CustomerPhone,
		},
		Items: items,
		Charges: Charges{
			Subtotal:    A(inv.Subtotal),
			Shipping:    A(inv.ShippingCharges),
			Other:       A(inv.OtherCharges),
			TotalAmount: A(inv.TotalAmount),
		},
	}
}

// ToDomain maps a backend invoice into the domain model. The backend keeps no
// timestamps the application relies on, so both are set to now.
//
// Stored records are read leniently: the number is taken from its leading
// digits and an unreadable date maps to the zero time. Only a record without
// any number fails.
func ToDomain(w Invoice, now time.Time) (domain.Invoice, error) {
	no, ok := format.LeadingInvoiceNumber(w.InvoiceNumber)
	if !ok {
		return domain.Invoice{}, fmt.Errorf("%w: %q", format.ErrInvalidInvoiceNumber, w.InvoiceNumber)
	}
	date, err := ParseDate(w.Date)
	if err != nil {
		date = time.Time{}
	}

	items := make([]domain.InvoiceItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, domain.InvoiceItem{
			ID:           it.ID,
			StockID:      it.StockID,
			Description:  it.Description,
			Pieces:       it.Pieces,
			Weight:       it.Weight.Decimal,
			PricePerUnit: it.PricePerUnit.Decimal,
			Total:        it.Total.Decimal,
		})
	}

	return domain.Invoice{
		ID:              w.ID,
		InvoiceNo:       no,
		Date:            date,
		Terms:           w.Terms,
		CustomerName:    w.Customer.Name,
		CustomerAddress: w.Customer.Address,
		CustomerCity:    w.Customer.City,
		CustomerPhone:   w.Customer.Phone,
		Items:           items,
		Subtotal:        w.Charges.Subtotal.Decimal,
		ShippingCharges: w.Charges.Shipping.Decimal,
		OtherCharges:    w.Charges.Other.Decimal,
		TotalAmount:     w.Charges.TotalAmount.Decimal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ParseDate accepts a bare calendar date or an RFC 3339 timestamp and returns
// the calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := domain.ParseDate(value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid invoice date %q", value)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Amount is a decimal encoded as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

// A wraps d as an Amount.
func A(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

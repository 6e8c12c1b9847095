package invoicestore

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/format"
	"github.com/smallbiznis/gembill/internal/invoice/wire"
	"gorm.io/datatypes"
)

// toModel validates an incoming payload and builds the row to store. Item
// ids are always freshly generated.
func toModel(w wire.Invoice, id snowflake.ID, node *snowflake.Node, now time.Time) (*Invoice, error) {
	no, err := format.ParseInvoiceNumber(w.InvoiceNumber)
	if err != nil || no <= 0 {
		return nil, invalid("invoiceNumber must look like INV-0001")
	}
	date, err := wire.ParseDate(w.Date)
	if err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}

	customer := w.Customer
	switch {
	case strings.TrimSpace(customer.Name) == "":
		return nil, invalid("customer name is required")
	case strings.TrimSpace(customer.Address) == "":
		return nil, invalid("customer address is required")
	case strings.TrimSpace(customer.City) == "":
		return nil, invalid("customer city is required")
	case len(w.Items) == 0:
		return nil, invalid("at least one item is required")
	}

	charges := []decimal.Decimal{
		w.Charges.Subtotal.Decimal, w.Charges.Shipping.Decimal,
		w.Charges.Other.Decimal, w.Charges.TotalAmount.Decimal,
	}
	if anyNegative(charges...) {
		return nil, invalid("charges must not be negative")
	}

	items := make([]InvoiceItem, 0, len(w.Items))
	for i, it := range w.Items {
		if strings.TrimSpace(it.Description) == "" {
			return nil, invalid("item description is required")
		}
		if it.Pieces < 0 || anyNegative(it.Weight.Decimal, it.PricePerUnit.Decimal, it.Total.Decimal) {
			return nil, invalid("item quantities and prices must not be negative")
		}
		items = append(items, InvoiceItem{
			ID:           node.Generate(),
			InvoiceID:    id,
			Position:     i,
			StockID:      strings.TrimSpace(it.StockID),
			Description:  it.Description,
			Pieces:       it.Pieces,
			Weight:       it.Weight.Decimal,
			PricePerUnit: it.PricePerUnit.Decimal,
			Total:        it.Total.Decimal,
		})
	}

	return &Invoice{
		ID:              id,
		InvoiceNumber:   format.FormatInvoiceNumber(no),
		Date:            datatypes.Date(date),
		Terms:           w.Terms,
		CustomerName:    customer.Name,
		CustomerAddress: customer.Address,
		CustomerCity:    customer.City,
		CustomerPhone:   customer.Phone,
		Subtotal:        w.Charges.Subtotal.Decimal,
		Shipping:        w.Charges.Shipping.Decimal,
		Other:           w.Charges.Other.Decimal,
		TotalAmount:     w.Charges.TotalAmount.Decimal,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func fromModel(inv Invoice) wire.Invoice {
	items := make([]wire.Item, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, wire.Item{
			ID:           it.ID.String(),
			StockID:      it.StockID,
			Description:  it.Description,
			Pieces:       it.Pieces,
			Weight:       wire.A(it.Weight),
			PricePerUnit: wire.A(it.PricePerUnit),
			Total:        wire.A(it.Total),
		})
	}

	return wire.Invoice{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Date:          time.Time(inv.Date).UTC().Format(domain.DateLayout),
		Terms:         inv.Terms,
		Customer: wire.Customer{
			Name:    inv.CustomerName,
			Address: inv.CustomerAddress,
			City:    inv.CustomerCity,
			Phone:   inv.CustomerPhone,
		},
		Items: items,
		Charges: wire.Charges{
			Subtotal:    wire.A(inv.Subtotal),
			Shipping:    wire.A(inv.Shipping),
			Other:       wire.A(inv.Other),
			TotalAmount: wire.A(inv.TotalAmount),
		},
	}
}

func anyNegative(values ...decimal.Decimal) bool {
	for _, v := range values {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

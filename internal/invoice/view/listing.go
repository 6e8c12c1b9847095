package view

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/invoice/domain"
)

const displayDateLayout = "02/01/2006"

// SortNewestFirst returns a copy ordered by invoice number, highest first.
func SortNewestFirst(items []domain.Invoice) []domain.Invoice {
	out := make([]domain.Invoice, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InvoiceNo > out[j].InvoiceNo
	})
	return out
}

// FormatCurrency renders an amount as dollars with two decimals.
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateLayout)
}

// Row is one line of the invoice list.
type Row struct {
	ID           string `json:"id"`
	InvoiceNo    int64  `json:"invoiceNo"`
	Date         string `json:"date"`
	CustomerName string `json:"customerName"`
	CustomerCity string `json:"customerCity"`
	ItemCount    int    `json:"itemCount"`
	TotalAmount  string `json:"totalAmount"`
}

// Rows builds the list view, newest first.
func Rows(items []domain.Invoice) []Row {
	sorted := SortNewestFirst(items)
	out := make([]Row, 0, len(sorted))
	for _, inv := range sorted {
		out = append(out, Row{
			ID:           inv.ID,
			InvoiceNo:    inv.InvoiceNo,
			Date:         FormatDate(inv.Date),
			CustomerName: inv.CustomerName,
			CustomerCity: inv.CustomerCity,
			ItemCount:    len(inv.Items),
			TotalAmount:  FormatCurrency(inv.TotalAmount),
		})
	}
	return out
}

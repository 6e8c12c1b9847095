package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTransitions(t *testing.T) {
	inv := domain.Invoice{ID: "a", InvoiceNo: 2640, CustomerName: "Jane"}

	s := Initial()
	assert.Equal(t, ModeListing, s.Mode())
	assert.Equal(t, "Invoices", s.Title())

	created := s.CreateNew()
	assert.Equal(t, ModeEditing, created.Mode())
	assert.Nil(t, created.Invoice())
	assert.Equal(t, "Create New Invoice", created.Title())

	editing := s.Edit(inv)
	require.NotNil(t, editing.Invoice())
	assert.Equal(t, "Edit Invoice #2640", editing.Title())
	assert.Equal(t, ModeListing, s.Mode(), "transitions must not mutate the receiver")

	done := editing.Submitted()
	assert.Equal(t, ModeListing, done.Mode())
	assert.Nil(t, done.Invoice())
	assert.Equal(t, 1, done.Refresh())

	preview := done.Preview(inv)
	assert.Equal(t, ModePreviewing, preview.Mode())
	assert.Equal(t, "a", preview.Invoice().ID)
	assert.Equal(t, "Preview", preview.Title())
	assert.Equal(t, 1, preview.Refresh())
}

func TestEditForm(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	blank := Initial().CreateNew().EditForm(now)
	assert.Equal(t, "2026-10-16", blank.Date)
	assert.Equal(t, domain.DefaultTerms, blank.Terms)
	assert.Len(t, blank.Items, 1)

	inv := domain.Invoice{
		Date:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Terms:        "NET 30",
		CustomerName: "Jane",
		Items:        []domain.InvoiceItem{{Description: "Ring", Pieces: 2}},
	}
	prefilled := Initial().Edit(inv).EditForm(now)
	assert.Equal(t, "2026-09-01", prefilled.Date)
	assert.Equal(t, "NET 30", prefilled.Terms)
	assert.Equal(t, "Ring", prefilled.Items[0].Description)
}

func TestSortNewestFirst(t *testing.T) {
	in := []domain.Invoice{{InvoiceNo: 2636}, {InvoiceNo: 2700}, {InvoiceNo: 2650}}
	out := SortNewestFirst(in)
	assert.Equal(t, []int64{2700, 2650, 2636}, []int64{out[0].InvoiceNo, out[1].InvoiceNo, out[2].InvoiceNo})
	assert.Equal(t, int64(2636), in[0].InvoiceNo)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$37.50", FormatCurrency(decimal.RequireFromString("37.5")))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "-$1.25", FormatCurrency(decimal.RequireFromString("-1.25")))
	assert.Equal(t, "05/03/2026", FormatDate(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestRows(t *testing.T) {
	rows := Rows([]domain.Invoice{
		{ID: "a", InvoiceNo: 1, TotalAmount: decimal.NewFromInt(5)},
		{ID: "b", InvoiceNo: 2, TotalAmount: decimal.NewFromInt(7), Items: make([]domain.InvoiceItem, 3)},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, 3, rows[0].ItemCount)
	assert.Equal(t, "$7.00", rows[0].TotalAmount)
}

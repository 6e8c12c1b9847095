package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/config"
	"github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() domain.Invoice {
	return domain.Invoice{
		ID:              "a",
		InvoiceNo:       2641,
		Date:            time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		Terms:           "COD",
		CustomerName:    "Jane Smith",
		CustomerAddress: "12 Gem Row",
		CustomerCity:    "Houston",
		Items: []domain.InvoiceItem{{
			StockID:      "S-1",
			Description:  "Emerald <cut>",
			Pieces:       3,
			Weight:       decimal.RequireFromString("1.25"),
			PricePerUnit: decimal.NewFromInt(10),
			Total:        decimal.NewFromInt(30),
		}},
		Subtotal:        decimal.NewFromInt(30),
		ShippingCharges: decimal.NewFromInt(5),
		OtherCharges:    decimal.Zero,
		TotalAmount:     decimal.NewFromInt(35),
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(sampleInvoice(), config.DefaultLetterhead())

	assert.Equal(t, "2641", doc.InvoiceNo)
	assert.Equal(t, "16/10/2026", doc.Date)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, 1, doc.Rows[0].SrNo)
	assert.Equal(t, "1.25CT", doc.Rows[0].Weight)
	assert.Equal(t, "10.00$", doc.Rows[0].Price)
	assert.Equal(t, "30.00$", doc.Rows[0].Total)
	assert.Equal(t, 5, doc.BlankRows)
	assert.True(t, doc.ShowShipping)
	assert.False(t, doc.ShowSalesTax)
	assert.Equal(t, "35.00$", doc.TotalAmount)
}

func TestNewDocumentNoPaddingBeyondSixRows(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = make([]domain.InvoiceItem, 8)
	assert.Equal(t, 0, NewDocument(inv, config.Letterhead{}).BlankRows)
}

func TestRenderHTML(t *testing.T) {
	doc := NewDocument(sampleInvoice(), config.DefaultLetterhead())
	out, err := NewRenderer().RenderHTML(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "STARLINK JEWELS INC")
	assert.Contains(t, out, "TO: Jane Smith")
	assert.Contains(t, out, "Emerald &lt;cut&gt;")
	assert.Contains(t, out, "Shipping Charges")
	assert.NotContains(t, out, "Sales Tax")
	assert.NotContains(t, out, "Tel: ")
	assert.Contains(t, out, "THANK YOU FOR YOUR BUSINESS")
	assert.Contains(t, out, "size: A4")
	assert.Equal(t, 5, strings.Count(out, `class="blank"`))
}

func TestRenderHTMLPhoneAndSalesTax(t *testing.T) {
	inv := sampleInvoice()
	inv.CustomerPhone = "555-0100"
	inv.OtherCharges = decimal.RequireFromString("2.5")

	out, err := NewRenderer().RenderHTML(NewDocument(inv, config.DefaultLetterhead()))
	require.NoError(t, err)
	assert.Contains(t, out, "Tel: 555-0100")
	assert.Contains(t, out, "Sales Tax")
	assert.Contains(t, out, "2.50$")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Invoice-2641.pdf", FileName(sampleInvoice()))
}

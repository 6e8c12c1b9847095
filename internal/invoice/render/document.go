package render

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/config"
	"github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/view"
)

// MinTableRows is the number of item rows a printed invoice always shows;
// shorter invoices are padded with blank rows.
const MinTableRows = 6

// Document is an invoice laid out for printing, with every value already
// formatted. The HTML and PDF outputs are both built from it.
type Document struct {
	Letterhead config.Letterhead

	InvoiceNo string
	Date      string
	Terms     string

	CustomerName    string
	CustomerAddress string
	CustomerCity    string
	CustomerPhone   string

	Rows      []Row
	BlankRows int

	ShowShipping bool
	Shipping     string
	ShowSalesTax bool
	SalesTax     string
	TotalAmount  string

	// LogoSrc and StampSrc are image URLs for the HTML output.
	LogoSrc  string
	StampSrc string
}

type Row struct {
	SrNo        int
	StockID     string
	Description string
	Pieces      int64
	Weight      string
	Price       string
	Total       string
}

// NewDocument lays out inv under the given letterhead.
func NewDocument(inv domain.Invoice, lh config.Letterhead) Document {
	rows := make([]Row, 0, len(inv.Items))
	for i, item := range inv.Items {
		rows = append(rows, Row{
			SrNo:        i + 1,
			StockID:     item.StockID,
			Description: item.Description,
			Pieces:      item.Pieces,
			Weight:      item.Weight.String() + "CT",
			Price:       Money(item.PricePerUnit),
			Total:       Money(item.Total),
		})
	}

	return Document{
		Letterhead:      lh,
		InvoiceNo:       strconv.FormatInt(inv.InvoiceNo, 10),
		Date:            view.FormatDate(inv.Date),
		Terms:           inv.Terms,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerCity:    inv.CustomerCity,
		CustomerPhone:   inv.CustomerPhone,
		Rows:            rows,
		BlankRows:       max(0, MinTableRows-len(rows)),
		ShowShipping:    inv.ShippingCharges.IsPositive(),
		Shipping:        Money(inv.ShippingCharges),
		ShowSalesTax:    inv.OtherCharges.IsPositive(),
		SalesTax:        Money(inv.OtherCharges),
		TotalAmount:     Money(inv.TotalAmount),
	}
}

// Money renders an amount the way the printed invoice shows it: two
// decimals followed by a dollar sign.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "$"
}

// FileName is the download name of the PDF export.
func FileName(inv domain.Invoice) string {
	return "Invoice-" + strconv.FormatInt(inv.InvoiceNo, 10) + ".pdf"
}

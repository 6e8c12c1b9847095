package pdf

import (
	"bytes"
	"context"
	"io"
	"os"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/gembill/internal/invoice/render"
)

var (
	brand      = &props.Color{Red: 30, Green: 58, Blue: 138}
	brandLight = &props.Color{Red: 224, Green: 231, Blue: 255}
	gridColor  = &props.Color{Red: 156, Green: 163, Blue: 175}

	cell       = &props.Cell{BorderType: border.Full, BorderColor: gridColor, BorderThickness: 0.2}
	headerCell = &props.Cell{BorderType: border.Full, BorderColor: gridColor, BorderThickness: 0.2, BackgroundColor: brandLight}
)

const (
	bodySize  = 8
	tableRowH = 6
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// GenerateInvoice renders doc as an A4 portrait page.
func (p *PDFProvider) GenerateInvoice(ctx context.Context, doc render.Document) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Vertical).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)
	lh := doc.Letterhead

	// Letterhead
	hasLogo := fileExists(lh.LogoPath)
	brandSize := 7
	if hasLogo {
		brandSize = 5
	}
	brandCol := col.New(brandSize).Add(
		text.New(lh.CompanyName, props.Text{Size: 16, Style: fontstyle.Bold, Color: brand, Top: 4}),
		text.New(lh.Website, props.Text{Size: bodySize, Top: 12}),
	)
	sellerCol := col.New(5)
	top := 0.0
	for _, l := range lh.AddressLines {
		sellerCol.Add(text.New(l, props.Text{Size: bodySize, Align: align.Right, Top: top}))
		top += 4
	}
	for _, ph := range lh.Phones {
		sellerCol.Add(text.New(ph.Label+": "+ph.Number, props.Text{Size: bodySize, Align: align.Right, Top: top}))
		top += 4
	}
	if lh.Email != "" {
		sellerCol.Add(text.New("Email: "+lh.Email, props.Text{Size: bodySize, Align: align.Right, Top: top}))
		top += 4
	}

	if hasLogo {
		m.AddRow(max(30, top+2),
			image.NewFromFileCol(2, lh.LogoPath, props.Rect{Center: true, Percent: 90}),
			brandCol,
			sellerCol,
		)
	} else {
		m.AddRow(max(24, top+2), brandCol, sellerCol)
	}

	m.AddRow(4, line.NewCol(12, props.Line{Style: linestyle.Dashed, Thickness: 0.2, Color: gridColor}))

	m.AddRow(10, text.NewCol(12, "INVOICE", props.Text{Size: 13, Style: fontstyle.Bold, Align: align.Center, Top: 2}))

	// Customer and meta box
	to := col.New(8).Add(
		text.New("TO: "+doc.CustomerName, props.Text{Size: 10, Style: fontstyle.Bold}),
		text.New(doc.CustomerAddress, props.Text{Size: bodySize, Top: 6}),
		text.New(doc.CustomerCity, props.Text{Size: bodySize, Top: 10}),
	)
	if doc.CustomerPhone != "" {
		to.Add(text.New("Tel: "+doc.CustomerPhone, props.Text{Size: bodySize, Top: 14}))
	}
	meta := col.New(4).WithStyle(cell).Add(
		text.New("Invoice No: "+doc.InvoiceNo, props.Text{Size: bodySize, Left: 2, Top: 1}),
		text.New("Date: "+doc.Date, props.Text{Size: bodySize, Left: 2, Top: 6}),
		text.New("Terms: "+doc.Terms, props.Text{Size: bodySize, Left: 2, Top: 11}),
	)
	m.AddRow(20, to, meta)
	m.AddRow(4, col.New(12))

	// Items
	priceHeader := "PRICE"
	if lh.PriceCurrency != "" {
		priceHeader += " " + lh.PriceCurrency
	}
	m.AddRow(tableRowH+2,
		headerCol(1, "SR NO", align.Left),
		headerCol(2, "STOCK ID", align.Left),
		headerCol(3, "DESCRIPTION", align.Left),
		headerCol(1, "PCS", align.Center),
		headerCol(1, "WEIGHT", align.Center),
		headerCol(2, priceHeader, align.Center),
		headerCol(2, "TOTAL", align.Center),
	)
	for _, r := range doc.Rows {
		m.AddRow(tableRowH,
			bodyCol(1, strconv.Itoa(r.SrNo), align.Center, false),
			bodyCol(2, r.StockID, align.Left, false),
			bodyCol(3, r.Description, align.Left, false),
			bodyCol(1, strconv.FormatInt(r.Pieces, 10), align.Center, false),
			bodyCol(1, r.Weight, align.Center, false),
			bodyCol(2, r.Price, align.Center, false),
			bodyCol(2, r.Total, align.Center, false),
		)
	}
	for i := 0; i < doc.BlankRows; i++ {
		m.AddRow(tableRowH,
			col.New(1).WithStyle(cell), col.New(2).WithStyle(cell), col.New(3).WithStyle(cell),
			col.New(1).WithStyle(cell), col.New(1).WithStyle(cell), col.New(2).WithStyle(cell),
			col.New(2).WithStyle(cell),
		)
	}
	if doc.ShowShipping {
		m.AddRow(tableRowH, bodyCol(10, "Shipping Charges", align.Right, true), bodyCol(2, doc.Shipping, align.Center, true))
	}
	if doc.ShowSalesTax {
		m.AddRow(tableRowH, bodyCol(10, "Sales Tax", align.Right, true), bodyCol(2, doc.SalesTax, align.Center, true))
	}
	m.AddRow(tableRowH, bodyCol(10, "Total Amount", align.Right, true), bodyCol(2, doc.TotalAmount, align.Center, true))

	// Signatures
	m.AddRow(8, col.New(12))
	stamp := col.New(6)
	if fileExists(lh.StampPath) {
		stamp = image.NewFromFileCol(6, lh.StampPath, props.Rect{Center: true, Percent: 70})
	}
	m.AddRow(6,
		text.NewCol(6, "Buyers Confirmation.", props.Text{Size: bodySize}),
		text.NewCol(6, "For "+lh.CompanyName, props.Text{Size: bodySize, Align: align.Center}),
	)
	m.AddRow(18, col.New(6), stamp)
	m.AddRow(2,
		line.NewCol(3, props.Line{Thickness: 0.2, Color: gridColor}),
		col.New(6),
		line.NewCol(3, props.Line{Thickness: 0.2, Color: gridColor}),
	)
	m.AddRow(6,
		text.NewCol(6, "Chop or signature.", props.Text{Size: bodySize}),
		text.NewCol(6, "Chop & Authorized Signature", props.Text{Size: bodySize, Align: align.Right}),
	)

	for _, l := range lh.LegalLines {
		m.AddRow(8, text.NewCol(12, l, props.Text{Size: 7, Top: 1}))
	}
	if lh.ThankYou != "" {
		m.AddRow(10, text.NewCol(12, lh.ThankYou, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center, Top: 3}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(out.GetBytes()), nil
}

func headerCol(size int, label string, a align.Type) core.Col {
	return text.NewCol(size, label, props.Text{Size: bodySize, Style: fontstyle.Bold, Align: a, Top: 1, Left: 1}).WithStyle(headerCell)
}

func bodyCol(size int, value string, a align.Type, bold bool) core.Col {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return text.NewCol(size, value, props.Text{Size: bodySize, Style: style, Align: a, Top: 1, Left: 1, Right: 1}).WithStyle(cell)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

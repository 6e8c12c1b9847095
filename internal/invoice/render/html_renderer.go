package render

import (
	"bytes"
	"html/template"
)

type Renderer interface {
	RenderHTML(doc Document) (string, error)
}

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.InvoiceNo}}</title>
  <style>
    :root {
      --ink: #1f2937;
      --brand: #1e3a8a;
      --brand-light: #e0e7ff;
      --line: #9ca3af;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 24px;
      font-family: Georgia, "Times New Roman", serif;
      color: var(--ink);
      background: #ffffff;
    }
    .invoice-content {
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
      border: 1px solid var(--line);
      font-size: 12px;
    }
    .header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 24px; }
    .brand { display: flex; align-items: center; gap: 16px; }
    .brand img { height: 80px; width: auto; }
    .brand h1 { margin: 0; font-size: 24px; color: var(--brand); }
    .brand .site { margin-top: 4px; font-size: 11px; }
    .seller { text-align: right; line-height: 1.5; font-size: 11px; }
    .seller p { margin: 0; }
    .divider { border-top: 1px dashed var(--line); margin-bottom: 16px; }
    .title { text-align: center; margin-bottom: 16px; }
    .title h2 { margin: 0; font-size: 18px; }
    .details { display: flex; justify-content: space-between; margin-bottom: 16px; }
    .details h3 { margin: 0 0 4px; font-size: 13px; }
    .details p { margin: 0; line-height: 1.5; }
    .meta { border: 1px solid var(--line); padding: 8px; min-width: 180px; }
    .meta div { display: flex; justify-content: space-between; gap: 12px; }
    .meta span:first-child { font-weight: 600; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
    th, td { border: 1px solid var(--line); padding: 6px; font-size: 11px; }
    th { background: var(--brand-light); font-weight: 600; text-align: center; }
    th.left, td.left { text-align: left; }
    td { text-align: center; }
    td.label { text-align: right; font-weight: 600; }
    tr.grand td { font-weight: 700; }
    .footer { display: flex; justify-content: space-between; align-items: flex-end; margin-top: 24px; }
    .sign { border-top: 1px solid var(--line); width: 130px; margin-top: 16px; padding-top: 4px; }
    .stamp { text-align: center; }
    .stamp img { height: 64px; width: 64px; }
    .stamp .sign { margin: 0 auto; }
    .legal { margin-top: 16px; font-size: 11px; line-height: 1.3; }
    .legal p { margin: 0 0 4px; }
    .thanks { text-align: center; margin-top: 12px; font-size: 13px; font-weight: 600; }
    @media print {
      html, body { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
      body { margin: 0 !important; padding: 20px !important; }
      .invoice-content { border: none !important; padding: 20px !important; margin: 0 !important; max-width: none; }
      * { box-shadow: none !important; }
      @page { margin: 0; size: A4; }
    }
  </style>
</head>
<body>
  <div class="invoice-content">
    <div class="header">
      <div class="brand">
        {{if .LogoSrc}}<img src="{{.LogoSrc}}" alt="{{.Letterhead.CompanyName}} logo" />{{end}}
        <div>
          <h1>{{.Letterhead.CompanyName}}</h1>
          {{if .Letterhead.Website}}<p class="site">{{.Letterhead.Website}}</p>{{end}}
        </div>
      </div>
      <div class="seller">
        {{range .Letterhead.AddressLines}}<p>{{.}}</p>
        {{end}}
        {{range .Letterhead.Phones}}<p>{{.Label}}: {{.Number}}</p>
        {{end}}
        {{if .Letterhead.Email}}<p>Email: {{.Letterhead.Email}}</p>{{end}}
      </div>
    </div>

    <div class="divider"></div>

    <div class="title"><h2>INVOICE</h2></div>

    <div class="details">
      <div>
        <h3>TO: {{.CustomerName}}</h3>
        <p>{{.CustomerAddress}}</p>
        <p>{{.CustomerCity}}</p>
        {{if .CustomerPhone}}<p>Tel: {{.CustomerPhone}}</p>{{end}}
      </div>
      <div class="meta">
        <div><span>Invoice No:</span><span>{{.InvoiceNo}}</span></div>
        <div><span>Date:</span><span>{{.Date}}</span></div>
        <div><span>Terms:</span><span>{{.Terms}}</span></div>
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th class="left">SR NO</th>
          <th class="left">STOCK ID</th>
          <th class="left">DESCRIPTION</th>
          <th>PCS</th>
          <th>WEIGHT</th>
          <th>PRICE{{if .Letterhead.PriceCurrency}}<br />{{.Letterhead.PriceCurrency}}{{end}}</th>
          <th>TOTAL</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}
        <tr>
          <td>{{.SrNo}}</td>
          <td class="left">{{.StockID}}</td>
          <td class="left">{{.Description}}</td>
          <td>{{.Pieces}}</td>
          <td>{{.Weight}}</td>
          <td>{{.Price}}</td>
          <td>{{.Total}}</td>
        </tr>
        {{end}}
        {{range blankRows .BlankRows}}
        <tr class="blank"><td>&nbsp;</td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
        {{end}}
        {{if .ShowShipping}}
        <tr><td class="label" colspan="6">Shipping Charges</td><td>{{.Shipping}}</td></tr>
        {{end}}
        {{if .ShowSalesTax}}
        <tr><td class="label" colspan="6">Sales Tax</td><td>{{.SalesTax}}</td></tr>
        {{end}}
        <tr class="grand"><td class="label" colspan="6">Total Amount</td><td>{{.TotalAmount}}</td></tr>
      </tbody>
    </table>

    <div class="footer">
      <div>
        <p>Buyers Confirmation.</p>
        <div class="sign">Chop or signature.</div>
      </div>
      <div class="stamp">
        <p>For {{.Letterhead.CompanyName}}</p>
        {{if .StampSrc}}<img src="{{.StampSrc}}" alt="{{.Letterhead.CompanyName}} stamp" />{{end}}
        <div class="sign">Chop &amp; Authorized Signature</div>
      </div>
    </div>

    {{if .Letterhead.LegalLines}}
    <div class="legal">
      {{range .Letterhead.LegalLines}}<p>{{.}}</p>
      {{end}}
    </div>
    {{end}}

    {{if .Letterhead.ThankYou}}<div class="thanks">{{.Letterhead.ThankYou}}</div>{{end}}
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"blankRows": func(n int) []struct{} { return make([]struct{}, max(0, n)) },
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(doc Document) (string, error) {
	if doc.Letterhead.CompanyName == "" {
		doc.Letterhead.CompanyName = "Invoice"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

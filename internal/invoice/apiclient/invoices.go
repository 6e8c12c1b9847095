package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/smallbiznis/gembill/internal/invoice/wire"
)

const (
	invoicesEndpoint = "/invoices"
	invoiceEndpoint  = "/invoices/:id"
)

func invoicePath(id string) string {
	return invoicesEndpoint + "/" + url.PathEscape(id)
}

// ListInvoices fetches every invoice.
func (c *Client) ListInvoices(ctx context.Context) ([]wire.Invoice, error) {
	var out []wire.Invoice
	if err := c.do(ctx, http.MethodGet, invoicesEndpoint, invoicesEndpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInvoice fetches one invoice. A missing invoice yields an HTTPError
// for which IsNotFound is true.
func (c *Client) GetInvoice(ctx context.Context, id string) (wire.Invoice, error) {
	var out wire.Invoice
	if err := c.do(ctx, http.MethodGet, invoiceEndpoint, invoicePath(id), nil, &out); err != nil {
		return wire.Invoice{}, err
	}
	return out, nil
}

// CreateInvoice posts a new invoice. It is never retried.
func (c *Client) CreateInvoice(ctx context.Context, in wire.Invoice) (wire.Invoice, error) {
	in.ID = ""
	var out wire.Invoice
	if err := c.do(ctx, http.MethodPost, invoicesEndpoint, invoicesEndpoint, in, &out); err != nil {
		return wire.Invoice{}, err
	}
	return out, nil
}

// ReplaceInvoice overwrites the invoice stored under id.
func (c *Client) ReplaceInvoice(ctx context.Context, id string, in wire.Invoice) (wire.Invoice, error) {
	in.ID = ""
	var out wire.Invoice
	if err := c.do(ctx, http.MethodPut, invoiceEndpoint, invoicePath(id), in, &out); err != nil {
		return wire.Invoice{}, err
	}
	return out, nil
}

// DeleteInvoice removes the invoice stored under id. Any response body is
// ignored.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, invoiceEndpoint, invoicePath(id), nil, nil)
}

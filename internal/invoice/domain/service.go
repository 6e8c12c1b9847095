package domain

import "context"

// Service is the only gateway to persisted invoices. Absent invoices are
// reported as nil results, never as errors.
type Service interface {
	ListAll(ctx context.Context) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	NextInvoiceNumber(ctx context.Context) int64
	Create(ctx context.Context, form FormData) (Invoice, error)
	Update(ctx context.Context, id string, form FormData) (*Invoice, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]Invoice, error)
}

// NumberLock serializes invoice number assignment across writers.
type NumberLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}

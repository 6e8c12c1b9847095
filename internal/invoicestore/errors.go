package invoicestore

import "errors"

var (
	ErrNotFound        = errors.New("not_found")
	ErrDuplicateNumber = errors.New("duplicate_invoice_number")
)

// InvalidError is a payload the backend refuses to store.
type InvalidError struct {
	Message string
}

func (e *InvalidError) Error() string { return e.Message }

func invalid(msg string) error {
	return &InvalidError{Message: msg}
}

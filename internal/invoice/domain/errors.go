package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTransport  = errors.New("transport_error")
	ErrValidation = errors.New("validation_error")
)

// TransportError reports a network or protocol failure talking to the
// invoice backend.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: backend responded %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ValidationError reports a payload the backend refused. Message is safe to
// show to a user.
type ValidationError struct {
	Message    string
	StatusCode int
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

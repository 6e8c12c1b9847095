package service

import (
	"github.com/smallbiznis/gembill/internal/invoice/apiclient"
	invoicedomain "github.com/smallbiznis/gembill/internal/invoice/domain"
)

func isNotFound(err error) bool {
	return apiclient.IsNotFound(err)
}

func transportError(op string, err error) error {
	return &invoicedomain.TransportError{
		Op:         op,
		StatusCode: apiclient.StatusCode(err),
		Err:        err,
	}
}

// writeError turns a failed create or replace into a ValidationError when
// the backend refused the payload, and a TransportError otherwise.
func writeError(op, fallback string, err error) error {
	if !apiclient.IsRejected(err) {
		return transportError(op, err)
	}
	msg := apiclient.Message(err)
	if msg == "" {
		msg = fallback
	}
	return &invoicedomain.ValidationError{
		Message:    msg,
		StatusCode: apiclient.StatusCode(err),
	}
}

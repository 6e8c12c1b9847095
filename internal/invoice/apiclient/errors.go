package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is a non-2xx response from the backend. Message holds the
// backend's "message" field when the body carried one.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.URL, e.StatusCode)
}

// DecodeError reports a 2xx response whose body could not be decoded.
type DecodeError struct {
	Method string
	URL    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: invalid response body: %v", e.Method, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func newHTTPError(method, url string, resp *http.Response, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        url,
		Method:     method,
		Body:       string(body),
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		httpErr.Message = strings.TrimSpace(payload.Message)
	}
	return httpErr
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsRejected reports whether the backend refused the request payload (4xx
// other than 404).
func IsRejected(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500 && code != http.StatusNotFound
}

// Message returns the backend-supplied message of err, if any.
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return ""
}

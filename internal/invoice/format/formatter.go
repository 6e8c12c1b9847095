package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

const (
	// NumberPrefix precedes every invoice number on the wire.
	NumberPrefix = "INV-"

	// NumberTemplate renders invoice numbers as INV-0007, INV-2636, INV-12345.
	NumberTemplate = NumberPrefix + "{SEQ4}"

	// SeedInvoiceNumber is the first number handed out when no invoice exists.
	SeedInvoiceNumber int64 = 2636
)

var ErrInvalidInvoiceNumber = errors.New("invalid_invoice_number")

// FormatInvoiceNumber renders n with NumberTemplate. Padding widens, it never
// truncates.
func FormatInvoiceNumber(n int64) string {
	out, err := Render(NumberTemplate, n)
	if err != nil {
		return NumberPrefix + strconv.FormatInt(n, 10)
	}
	return out
}

// Render expands {SEQ} and {SEQn} tokens in template with seq.
func Render(template string, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}

	out := strings.ReplaceAll(template, "{SEQ}", strconv.FormatInt(seq, 10))
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}
	return out, nil
}

// ParseInvoiceNumber is the inverse of FormatInvoiceNumber. The prefix is
// optional so bare numbers are accepted too.
func ParseInvoiceNumber(value string) (int64, error) {
	raw := strings.TrimSpace(value)
	raw = strings.TrimPrefix(raw, NumberPrefix)
	if raw == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInvoiceNumber, value)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInvoiceNumber, value)
	}
	return n, nil
}

// LeadingInvoiceNumber reads the digits that follow an optional prefix and
// ignores anything after them, so "INV-2641b" yields 2641. ok is false when
// no digit leads the value.
func LeadingInvoiceNumber(value string) (n int64, ok bool) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), NumberPrefix)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

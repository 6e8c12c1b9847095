// Package correlation threads one id through a UI request and the invoice
// backend calls it causes.
package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

const Header = "X-Correlation-Id"

const maxLen = 64

type key struct{}

func ID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key{}).(string)
	return v
}

func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, key{}, id)
}

// Ensure returns ctx carrying a correlation id, minting a ULID if absent.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := ID(ctx); id != "" {
		return ctx, id
	}
	id := ulid.Make().String()
	return WithID(ctx, id), id
}

// Sanitize accepts an inbound header value only if it is at most 64
// characters of letters, digits, '-', '_' or '.'. Anything else yields "".
func Sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxLen {
		return ""
	}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return ""
		}
	}
	return raw
}

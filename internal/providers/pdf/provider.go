package pdf

import (
	"context"
	"io"

	"github.com/smallbiznis/gembill/internal/invoice/render"
	"go.uber.org/fx"
)

var Module = fx.Module("provider.pdf",
	fx.Provide(New),
)

// Provider renders printable invoice documents.
type Provider interface {
	GenerateInvoice(ctx context.Context, doc render.Document) (io.Reader, error)
}

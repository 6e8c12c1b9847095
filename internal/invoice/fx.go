package invoice

import (
	"github.com/smallbiznis/gembill/internal/config"
	"github.com/smallbiznis/gembill/internal/invoice/apiclient"
	invoicedomain "github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/numbering"
	"github.com/smallbiznis/gembill/internal/invoice/render"
	"github.com/smallbiznis/gembill/internal/invoice/service"
	obsmetrics "github.com/smallbiznis/gembill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("invoice.service",
	numbering.Module,
	fx.Provide(
		NewAPIClient,
		asBackend,
		asNumberLock,
		render.NewRenderer,
		service.NewService,
	),
)

func NewAPIClient(cfg config.Config, backendMetrics *obsmetrics.BackendMetrics, log *zap.Logger) *apiclient.Client {
	retry := apiclient.DefaultRetryConfig()
	retry.MaxRetries = cfg.InvoiceAPI.MaxRetries

	opts := []apiclient.Option{
		apiclient.WithBaseURL(cfg.InvoiceAPI.BaseURL),
		apiclient.WithTimeout(cfg.InvoiceAPI.Timeout),
		apiclient.WithRetryConfig(retry),
		apiclient.WithLogger(log),
	}
	if backendMetrics != nil {
		opts = append(opts, apiclient.WithMetricsCollector(backendMetrics))
	}
	return apiclient.New(opts...)
}

func asBackend(c *apiclient.Client) service.Backend { return c }

func asNumberLock(l *numbering.Lock) invoicedomain.NumberLock { return l }

package observability

import (
	"github.com/smallbiznis/gembill/internal/observability/logger"
	"github.com/smallbiznis/gembill/internal/observability/metrics"
	"github.com/smallbiznis/gembill/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module provides the logger, the tracer provider, the OTel meter with the
// invoice counters, and the Prometheus collectors for HTTP and backend calls.
var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.Logger,
		Config.Tracing,
		Config.Metrics,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
		metrics.NewBackendMetrics,
	),
	// The tracer provider installs itself globally; nothing else depends on it.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

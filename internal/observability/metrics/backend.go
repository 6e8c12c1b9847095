package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics records calls made to the invoice backend.
type BackendMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

// NewBackendMetrics registers the outbound request collectors on the default registry.
func NewBackendMetrics(cfg Config) (*BackendMetrics, error) {
	return newBackendMetrics(prometheus.DefaultRegisterer, cfg)
}

func newBackendMetrics(registerer prometheus.Registerer, cfg Config) (*BackendMetrics, error) {
	constLabels := prometheus.Labels{"service": serviceLabel(cfg)}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "gembill_backend_requests_total",
		Help:        "Requests sent to the invoice backend.",
		ConstLabels: constLabels,
	}, []string{"method", "endpoint", "status_code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "gembill_backend_request_duration_seconds",
		Help:        "Invoice backend latency including retries.",
		ConstLabels: constLabels,
		Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"method", "endpoint"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "gembill_backend_request_errors_total",
		Help:        "Invoice backend calls that failed or returned a non-2xx status.",
		ConstLabels: constLabels,
	}, []string{"method", "endpoint"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "gembill_backend_request_retries_total",
		Help:        "Retried invoice backend attempts.",
		ConstLabels: constLabels,
	}, []string{"method", "endpoint"})

	var err error
	if requests, err = registerOrReuse(registerer, requests); err != nil {
		return nil, err
	}
	if duration, err = registerOrReuse(registerer, duration); err != nil {
		return nil, err
	}
	if errs, err = registerOrReuse(registerer, errs); err != nil {
		return nil, err
	}
	if retries, err = registerOrReuse(registerer, retries); err != nil {
		return nil, err
	}

	return &BackendMetrics{requests: requests, duration: duration, errors: errs, retries: retries}, nil
}

func (m *BackendMetrics) RecordRequestDuration(method, endpoint string, _ int, duration time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *BackendMetrics) RecordRequestCount(method, endpoint string, statusCode int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
}

func (m *BackendMetrics) RecordRequestError(method, endpoint string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, endpoint).Inc()
}

func (m *BackendMetrics) RecordRetry(method, endpoint string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method, endpoint).Inc()
}

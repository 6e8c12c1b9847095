// Package apiclient talks to the REST backend that persists invoices.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	obscontext "github.com/smallbiznis/gembill/internal/observability/context"
	"github.com/smallbiznis/gembill/internal/observability/logger"
	"github.com/smallbiznis/gembill/internal/observability/tracing"
	"github.com/smallbiznis/gembill/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// MetricsCollector receives one observation per logical request.
type MetricsCollector interface {
	RecordRequestDuration(method, endpoint string, statusCode int, duration time.Duration)
	RecordRequestCount(method, endpoint string, statusCode int)
	RecordRequestError(method, endpoint string)
	RecordRetry(method, endpoint string)
}

// RetryConfig configures retries of idempotent requests.
type RetryConfig struct {
	MaxRetries           int
	InitialInterval      time.Duration
	MaxInterval          time.Duration
	Multiplier           float64
	MaxElapsedTime       time.Duration
	RetryableStatusCodes []int
}

// DefaultRetryConfig retries transient failures three times.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  10 * time.Second,
		RetryableStatusCodes: []int{
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// Client is a JSON client for the invoice backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      *RetryConfig
	metrics    MetricsCollector
	log        *zap.Logger
	tracer     trace.Tracer
}

// New builds a Client. Without WithBaseURL every call fails.
func New(options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      DefaultRetryConfig(),
		metrics:    noopMetrics{},
		log:        zap.NewNop(),
		tracer:     otel.Tracer("gembill/invoice-backend"),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryConfig overrides retry behavior. A nil config disables retries.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

func WithMetricsCollector(collector MetricsCollector) Option {
	return func(c *Client) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one logical request. endpoint is the low-cardinality route used
// for metrics and spans; path is the concrete request path.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) error {
	if c.baseURL == "" {
		return errors.New("invoice backend base url is not configured")
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = encoded
	}

	ctx, cid := correlation.Ensure(ctx)
	ctx, span := c.tracer.Start(ctx, "invoice-backend "+method+" "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", endpoint),
		),
	)
	defer span.End()

	fullURL := c.baseURL + path
	log := logger.WithContext(ctx, c.log).With(
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	start := time.Now()
	var resp *http.Response
	var respBody []byte

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bytesReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set(correlation.Header, cid)
		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			req.Header.Set("X-Request-Id", requestID)
		}
		tracing.InjectContext(ctx, propagation.HeaderCarrier(req.Header))

		r, err := c.httpClient.Do(req)
		if err != nil {
			if c.retryable(method) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		data, readErr := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if readErr != nil {
			if c.retryable(method) {
				return readErr
			}
			return backoff.Permanent(readErr)
		}
		resp, respBody = r, data

		if r.StatusCode < 200 || r.StatusCode > 299 {
			httpErr := newHTTPError(method, fullURL, r, data)
			if c.retryable(method) && c.retryableStatus(r.StatusCode) {
				return httpErr
			}
			return backoff.Permanent(httpErr)
		}
		return nil
	}

	var err error
	if c.retry != nil && c.retry.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = c.retry.InitialInterval
		exp.MaxInterval = c.retry.MaxInterval
		exp.Multiplier = c.retry.Multiplier
		exp.MaxElapsedTime = c.retry.MaxElapsedTime
		policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.retry.MaxRetries)), ctx)

		err = backoff.RetryNotify(attempt, policy, func(retryErr error, wait time.Duration) {
			c.metrics.RecordRetry(method, endpoint)
			log.Warn("retrying invoice backend request", zap.Error(retryErr), zap.Duration("backoff", wait))
		})
	} else {
		err = attempt()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
	}

	duration := time.Since(start)
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordRequestDuration(method, endpoint, statusCode, duration)
	c.metrics.RecordRequestCount(method, endpoint, statusCode)
	span.SetAttributes(attribute.Int("http.status_code", statusCode))

	if err != nil {
		c.metrics.RecordRequestError(method, endpoint)
		span.RecordError(tracing.SafeError(err))
		span.SetStatus(codes.Error, "invoice backend request failed")

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			log.Warn("invoice backend error response",
				zap.Int("status", httpErr.StatusCode),
				zap.String("message", httpErr.Message),
				zap.Duration("duration", duration))
			return httpErr
		}
		log.Error("invoice backend request failed", zap.Error(err), zap.Duration("duration", duration))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	log.Debug("invoice backend request", zap.Int("status", statusCode), zap.Duration("duration", duration))

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &DecodeError{Method: method, URL: fullURL, Err: err}
	}
	return nil
}

// retryable reports whether a request with method may be sent twice. POST
// is excluded because a duplicate would create a second invoice.
func (c *Client) retryable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (c *Client) retryableStatus(code int) bool {
	if c.retry == nil {
		return false
	}
	for _, candidate := range c.retry.RetryableStatusCodes {
		if candidate == code {
			return true
		}
	}
	return false
}

func bytesReader(payload []byte) io.Reader {
	if payload == nil {
		return nil
	}
	return bytes.NewReader(payload)
}

type noopMetrics struct{}

func (noopMetrics) RecordRequestDuration(string, string, int, time.Duration) {}
func (noopMetrics) RecordRequestCount(string, string, int)                   {}
func (noopMetrics) RecordRequestError(string, string)                        {}
func (noopMetrics) RecordRetry(string, string)                               {}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := newHTTPMetrics(reg, Config{ServiceName: "test"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/invoices/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices/42", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/invoices/:id", "404")))
}

func TestHTTPMetricsReuseRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newHTTPMetrics(reg, Config{})
	require.NoError(t, err)
	second, err := newHTTPMetrics(reg, Config{})
	require.NoError(t, err)
	assert.Same(t, first.requests, second.requests)
}

func TestBackendMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := newBackendMetrics(reg, Config{})
	require.NoError(t, err)

	m.RecordRequestCount("GET", "/invoices", 200)
	m.RecordRequestCount("GET", "/invoices", 200)
	m.RecordRequestDuration("GET", "/invoices", 200, 20*time.Millisecond)
	m.RecordRequestError("POST", "/invoices")
	m.RecordRetry("GET", "/invoices")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/invoices", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("POST", "/invoices")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries.WithLabelValues("GET", "/invoices")))

	var nilMetrics *BackendMetrics
	nilMetrics.RecordRequestCount("GET", "/invoices", 200)
}

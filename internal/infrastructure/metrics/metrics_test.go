package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pricing-api/internal/application/ports"
)

func TestMetrics_RecordConversion(t *testing.T) {
	m := New(Config{ServiceName: "pricing-api", Environment: "test"})

	m.RecordConversion(ports.ConversionFallback)
	m.RecordConversion(ports.ConversionFallback)
	m.RecordConversion(ports.ConversionOK)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.conversions.WithLabelValues(ports.ConversionFallback)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.conversions.WithLabelValues(ports.ConversionOK)))
}

func TestMetrics_NilNoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordConversion(ports.ConversionOK)
		m.ObserveRequest("GET", "/health", 200, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(Config{})
	m.RecordConversion(ports.ConversionCached)
	m.ObserveRequest("POST", "/api/pricing/lines", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pricing_currency_conversions_total{env="unknown",result="cached",service="pricing-api"} 1`)
	assert.Contains(t, string(body), "pricing_http_request_duration_seconds_bucket")
}

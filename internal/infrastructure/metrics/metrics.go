package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pricing-api/internal/application/ports"
)

var _ ports.ConversionRecorder = (*Metrics)(nil)

// Config etiquetas constantes de todas las series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics registro propio de Prometheus del servicio.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// New crea el registro con las métricas del proceso y de Go además de las del servicio.
func New(cfg Config) *Metrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "pricing-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	conversions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pricing_currency_conversions_total",
		Help:        "Currency conversions by result (identity, ok, cached, fallback).",
		ConstLabels: constLabels,
	}, []string{"result"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "pricing_http_request_duration_seconds",
		Help:        "HTTP request latency by route and status.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: constLabels,
	}, []string{"method", "route", "status"})
	registry.MustRegister(conversions, requests)

	return &Metrics{registry: registry, conversions: conversions, requests: requests}
}

// RecordConversion implementa ports.ConversionRecorder.
func (m *Metrics) RecordConversion(result string) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(result).Inc()
}

// ObserveRequest registra la duración de una petición HTTP. route es el patrón, no la URL.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

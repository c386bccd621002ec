// Package metrics expone las métricas Prometheus del scanner.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Manager agrupa los collectors del scanner sobre un registry propio.
// Todos los métodos aceptan un receiver nil y no hacen nada.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	scans         prometheus.Counter
	scanDuration  prometheus.Histogram
	opportunities prometheus.Counter
	listings      prometheus.Gauge
	priceLabels   prometheus.Gauge
	bestEdge      prometheus.Gauge
	samplePrices  prometheus.Counter
	skipped       *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// Option configura un Manager.
type Option func(*Manager)

// WithNamespace cambia el prefijo de las métricas.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry usa un registry externo.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithHistogramBuckets define los buckets de latencia (segundos).
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) {
		if len(b) > 0 {
			m.buckets = b
		}
	}
}

// NewManager crea y registra todas las métricas.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "edgescan",
		buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.scans = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "scans_total",
		Help:      "Total de scans completados",
	})
	m.scanDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duración de cada scan",
		Buckets:   m.buckets,
	})
	m.opportunities = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "opportunities_total",
		Help:      "Oportunidades emitidas sobre el umbral de edge",
	})
	m.listings = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "listings",
		Help:      "Listings de deportes evaluados en el último scan",
	})
	m.priceLabels = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "price_labels",
		Help:      "Labels del sportsbook disponibles en el último scan",
	})
	m.bestEdge = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "best_edge_percent",
		Help:      "Mayor edge del último scan (0 si no hubo oportunidades)",
	})
	m.samplePrices = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sample_prices_total",
		Help:      "Scans que usaron el mapping de precios de ejemplo",
	})
	m.skipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "listings_skipped_total",
		Help:      "Listings descartados por motivo",
	}, []string{"reason"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Requests HTTP por ruta, método y status",
	}, []string{"route", "method", "status"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latencia de requests HTTP",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	return m
}

// ObserveScan registra el resultado de un scan.
func (m *Manager) ObserveScan(r domain.ScanReport) {
	if m == nil {
		return
	}
	m.scans.Inc()
	m.scanDuration.Observe(r.Duration.Seconds())
	m.opportunities.Add(float64(len(r.Opportunities)))
	m.listings.Set(float64(r.Stats.Listings))
	m.priceLabels.Set(float64(r.Stats.Labels))

	best := 0.0
	if opp, ok := r.Best(); ok {
		best = opp.EdgePct
	}
	m.bestEdge.Set(best)

	if r.Stats.SamplePrices {
		m.samplePrices.Inc()
	}
	m.skipped.WithLabelValues("book_unavailable").Add(float64(r.Stats.BookUnavailable))
	m.skipped.WithLabelValues("no_liquidity").Add(float64(r.Stats.NoLiquidity))
	m.skipped.WithLabelValues("no_match").Add(float64(r.Stats.NoMatch))
	m.skipped.WithLabelValues("below_threshold").Add(float64(r.Stats.BelowThreshold))
}

// ObserveHTTP registra una request servida por la API.
func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler devuelve el endpoint /metrics del registry del Manager.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry subyacente (usado en tests).
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the lineup builder.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	autofillRuns      *prometheus.CounterVec
	autofillSlots     *prometheus.CounterVec
	autofillSwaps     prometheus.Counter
	analysisScore     prometheus.Histogram
	valuationDuration prometheus.Histogram
	feedFetches       *prometheus.CounterVec
	activeSessions    prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) MetricsOption {
	return func(m *Metrics) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers collectors on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(m *Metrics) {
		if registry != nil {
			m.registry = registry
		}
	}
}

func NewMetrics(opts ...MetricsOption) *Metrics {
	m := &Metrics{
		namespace: "dfs",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Metrics) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.autofillRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "lineup",
		Name:      "autofill_runs_total",
		Help:      "Auto-fill runs by strategy",
	}, []string{"strategy"})

	m.autofillSlots = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "lineup",
		Name:      "autofill_slots_total",
		Help:      "Slots filled or left empty by auto-fill",
	}, []string{"strategy", "outcome"})

	m.autofillSwaps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "lineup",
		Name:      "upgrade_swaps_total",
		Help:      "Upgrade-pass swaps performed",
	})

	m.analysisScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "lineup",
		Name:      "analysis_score",
		Help:      "Distribution of lineup quality scores",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})

	m.valuationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "valuation",
		Name:      "recompute_duration_seconds",
		Help:      "Time spent recomputing player valuations",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	m.feedFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "enrichment",
		Name:      "feed_fetches_total",
		Help:      "Enrichment feed fetches by source and outcome",
	}, []string{"feed", "outcome"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "active_sessions",
		Help:      "Lineup sessions held in memory",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordAutoFill(strategy string, filled, unfilled int, swapped bool) {
	m.autofillRuns.WithLabelValues(strategy).Inc()
	m.autofillSlots.WithLabelValues(strategy, "filled").Add(float64(filled))
	m.autofillSlots.WithLabelValues(strategy, "unfilled").Add(float64(unfilled))
	if swapped {
		m.autofillSwaps.Inc()
	}
}

func (m *Metrics) RecordAnalysis(score float64) {
	m.analysisScore.Observe(score)
}

func (m *Metrics) RecordValuation(d time.Duration) {
	m.valuationDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordFeedFetch(feed string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.feedFetches.WithLabelValues(feed, outcome).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) RecordHTTPRequest(method, route, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

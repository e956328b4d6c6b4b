// Package metrics defines the gateway's Prometheus metric families:
// request outcomes, cache effectiveness, upstream behavior, and usage cost.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace and subsystem for every metric family.
const (
	namespace = "cartonex"
	subsystem = "gateway"
)

// Collector owns all metric families and their registry.
type Collector struct {
	registry *prometheus.Registry

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestTokens   *prometheus.HistogramVec

	// Cache metrics
	cacheHitsTotal      *prometheus.CounterVec
	cacheMissesTotal    *prometheus.CounterVec
	cacheEvictionsTotal *prometheus.CounterVec

	// Upstream provider metrics
	providerLatency     *prometheus.HistogramVec
	providerErrorsTotal *prometheus.CounterVec

	// Usage metrics
	costTotal       *prometheus.CounterVec
	rateLimitedTotal prometheus.Counter
}

// NewCollector creates and registers all metric families.
// If registry is nil a fresh one is used.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total requests by task type, status code, and cache outcome",
			},
			[]string{"task", "status", "cache"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Request duration by task type",
				// LLM latencies: cache hits in milliseconds, upstream calls up to tens of seconds
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"task"},
		),

		requestTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_tokens",
				Help:      "Token count per completed request by model",
				Buckets:   []float64{100, 500, 1000, 2000, 4000, 8000},
			},
			[]string{"model"},
		),

		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		cacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),

		cacheEvictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total number of expired cache entries removed on read",
			},
			[]string{"cache"},
		),

		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_latency_seconds",
				Help:      "Upstream call latency by provider and model",
				Buckets:   []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "model"},
		),

		providerErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_errors_total",
				Help:      "Total upstream errors by provider and error type",
			},
			[]string{"provider", "error_type"},
		),

		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cost_usd_total",
				Help:      "Estimated cumulative upstream cost in USD by model",
			},
			[]string{"model"},
		),

		rateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rate_limited_total",
				Help:      "Total requests rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.requestTokens,
		c.cacheHitsTotal,
		c.cacheMissesTotal,
		c.cacheEvictionsTotal,
		c.providerLatency,
		c.providerErrorsTotal,
		c.costTotal,
		c.rateLimitedTotal,
	)

	return c
}

// RecordRequest records one completed pipeline pass.
func (c *Collector) RecordRequest(task, status, cacheOutcome string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(task, status, cacheOutcome).Inc()
	c.requestDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// RecordTokens records the token count of a completed upstream call.
func (c *Collector) RecordTokens(model string, tokens int) {
	c.requestTokens.WithLabelValues(model).Observe(float64(tokens))
}

// RecordHit records a cache hit. Satisfies the cache package's Metrics.
func (c *Collector) RecordHit(cacheName string) {
	c.cacheHitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (c *Collector) RecordMiss(cacheName string) {
	c.cacheMissesTotal.WithLabelValues(cacheName).Inc()
}

// RecordEviction records a lazy expiry delete.
func (c *Collector) RecordEviction(cacheName string) {
	c.cacheEvictionsTotal.WithLabelValues(cacheName).Inc()
}

// RecordProviderLatency records an upstream call's duration.
func (c *Collector) RecordProviderLatency(provider, model string, duration time.Duration) {
	c.providerLatency.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordProviderError records a classified upstream failure.
func (c *Collector) RecordProviderError(provider, errorType string) {
	c.providerErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordCost adds a call's estimated cost to the per-model counter.
func (c *Collector) RecordCost(model string, usd float64) {
	c.costTotal.WithLabelValues(model).Add(usd)
}

// RecordRateLimited counts a 429 rejection.
func (c *Collector) RecordRateLimited() {
	c.rateLimitedTotal.Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

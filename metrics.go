package egret

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsCollector is the Prometheus instrumentation wired by WithMetrics,
// scaled down from the teacher pack's multi-provider metrics subsystem
// (rivaas-dev-rivaas/router/metrics_providers.go) to the one provider this
// module depends on directly: Prometheus, via a request counter and a
// duration histogram labeled by route name, method, and status class.
type metricsCollector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetricsCollector(reg prometheus.Registerer) *metricsCollector {
	mc := &metricsCollector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "egret_requests_total",
			Help: "Total HTTP requests handled, labeled by route and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "egret_request_duration_seconds",
			Help:    "Request handling latency in seconds, labeled by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(mc.requests, mc.duration)
	return mc
}

func (mc *metricsCollector) observe(route, method string, status int, elapsed time.Duration) {
	statusClass := strconv.Itoa(status/100) + "xx"
	mc.requests.WithLabelValues(route, method, statusClass).Inc()
	mc.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// WithMetrics registers request-count and latency instruments on reg and
// wraps dispatch so every request is observed. A nil reg disables metrics
// entirely, leaving dispatch unmodified — metrics are an observability
// addition, never a dispatch-semantics change (spec.md §1 non-goals).
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		if reg == nil {
			return
		}
		e.metrics = newMetricsCollector(reg)
	}
}

// MetricsHandler returns an http.Handler suitable for mounting a
// Prometheus scrape endpoint (e.g. on a separate admin mux), matching the
// teacher pack's pattern of exposing metrics outside the main routing tree.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Package metrics provides Prometheus metrics for the auth server.
// Metrics are registered on a per-instance registry so several servers (and
// tests) can coexist in one process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophauth"

// Session operations.
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpRenew    = "renew"
	OpLogout   = "logout"
	OpGuard    = "guard"
)

type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration observes handler latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec
	// SessionOpsTotal counts lifecycle operations by op and outcome.
	// outcome: ok or the name of the failure.
	SessionOpsTotal *prometheus.CounterVec
	// PurgedTokensTotal counts expired refresh tokens removed by the sweeper.
	PurgedTokensTotal prometheus.Counter
	// RateLimitedTotal counts requests rejected by the per-IP limiter.
	RateLimitedTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "route"},
		),
		SessionOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "operations_total",
				Help:      "Total number of session lifecycle operations by op and outcome.",
			},
			[]string{"op", "outcome"},
		),
		PurgedTokensTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "purged_tokens_total",
				Help:      "Total number of expired refresh tokens purged.",
			},
		),
		RateLimitedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter.",
			},
			[]string{"route"},
		),
	}
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSession records the outcome of a lifecycle operation.
func (m *Metrics) ObserveSession(op, outcome string) {
	m.SessionOpsTotal.WithLabelValues(op, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

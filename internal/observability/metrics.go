package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Guard decision labels
const (
	DecisionAllow    = "allow"
	DecisionRedirect = "redirect"
)

// Identity state labels
const (
	IdentityAnonymous     = "anonymous"
	IdentityAuthenticated = "authenticated"
	IdentityUndecodable   = "undecodable"
)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Guard metrics
	GuardDecisionsTotal *prometheus.CounterVec
	TokenDecodeFailures *prometheus.CounterVec

	// Session metrics
	SessionHydrationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "futurewise_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "futurewise_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "futurewise_guard_decisions_total",
				Help: "Request guard decisions by outcome and identity state",
			},
			[]string{"decision", "identity"},
		),
		TokenDecodeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "futurewise_token_decode_failures_total",
				Help: "Access tokens whose payload could not be decoded",
			},
			[]string{"reason"},
		),
		SessionHydrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "futurewise_session_hydrations_total",
				Help: "Client session hydration attempts by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GuardDecisionsTotal,
		m.TokenDecodeFailures,
		m.SessionHydrationsTotal,
	)

	return m
}

// Handler exposes the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordGuardDecision counts a request guard outcome. Safe on a nil receiver.
func (m *Metrics) RecordGuardDecision(decision, identity string) {
	if m == nil {
		return
	}
	m.GuardDecisionsTotal.WithLabelValues(decision, identity).Inc()
}

// RecordDecodeFailure counts an undecodable token. Safe on a nil receiver.
func (m *Metrics) RecordDecodeFailure(reason string) {
	if m == nil {
		return
	}
	m.TokenDecodeFailures.WithLabelValues(reason).Inc()
}

// RecordHydration counts a session hydration result. Safe on a nil receiver.
func (m *Metrics) RecordHydration(result string) {
	if m == nil {
		return
	}
	m.SessionHydrationsTotal.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records a finished HTTP request. Safe on a nil receiver.
func (m *Metrics) RecordHTTPRequest(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(seconds)
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AuthAttemptsTotal *prometheus.CounterVec

	OutboxEventsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "academy_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "academy_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "academy_auth_attempts_total",
				Help: "Login and token renewal attempts by flow and outcome",
			},
			[]string{"flow", "outcome"},
		),
		OutboxEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "academy_outbox_events_total",
				Help: "Outbox events handled by the relay by type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthAttemptsTotal,
		m.OutboxEventsTotal,
	)
	return m
}

func (m *Metrics) AuthAttempt(flow string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.AuthAttemptsTotal.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) OutboxEvent(eventType string, err error) {
	if m == nil {
		return
	}
	outcome := "published"
	if err != nil {
		outcome = "failed"
	}
	m.OutboxEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// OutboxEventDiscarded counts an event dropped because its payload could not
// be delivered as is.
func (m *Metrics) OutboxEventDiscarded(eventType string) {
	if m == nil {
		return
	}
	m.OutboxEventsTotal.WithLabelValues(eventType, "discarded").Inc()
}

// Handler exposes the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

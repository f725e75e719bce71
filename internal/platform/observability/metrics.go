package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giropositivo/giro_backend/internal/core/domain"
)

// Metrics holds all Prometheus metrics for the backend.
type Metrics struct {
	// Registry owns the metrics below and backs the /metrics endpoint.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	reconciliations *prometheus.CounterVec
}

// NewMetrics creates a dedicated registry so repeated construction in tests
// does not panic on duplicate collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "giro_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "giro_journey_reconciliations_total",
				Help: "Persisted journey reconciliations by automatic entry outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveReconciliation counts a persisted reconciliation.
func (m *Metrics) ObserveReconciliation(outcome domain.ReconciliationOutcome) {
	m.reconciliations.WithLabelValues(string(outcome)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

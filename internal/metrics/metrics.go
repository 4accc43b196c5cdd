package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rideshare"

// Reservation actions and outcomes.
const (
	ActionReserve = "reserve"
	ActionCancel  = "cancel"

	OutcomeSuccess         = "success"
	OutcomeAlreadyReserved = "already_reserved"
	OutcomeNotReserved     = "not_reserved"
	OutcomeNotFound        = "not_found"
	OutcomeForbidden       = "forbidden"
	OutcomeError           = "error"
)

// Metrics holds the collectors exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	ReservationsTotal  *prometheus.CounterVec
	ReservedListings   prometheus.Counter
	CancelledListings  prometheus.Counter
	TokenCleanupErrors prometheus.Counter
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_attempts_total",
			Help:      "Reserve and cancel attempts by action and outcome.",
		}, []string{"action", "outcome"}),

		ReservedListings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_reserved_total",
			Help:      "Listings successfully reserved.",
		}),

		CancelledListings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_cancelled_total",
			Help:      "Reservations successfully cancelled.",
		}),

		TokenCleanupErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_cleanup_errors_total",
			Help:      "Failed refresh-token cleanup runs.",
		}),
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Reservation counts one reserve or cancel attempt.
func (m *Metrics) Reservation(action, outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(action, outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}
	switch action {
	case ActionReserve:
		m.ReservedListings.Inc()
	case ActionCancel:
		m.CancelledListings.Inc()
	}
}

func (m *Metrics) TokenCleanupFailed() {
	if m == nil {
		return
	}
	m.TokenCleanupErrors.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

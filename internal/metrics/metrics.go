// Package metrics holds the Prometheus metrics of the mock admin API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of a mock server. A nil *Metrics
// records nothing.
type Metrics struct {
	// HTTP metrics, labelled by route template so ids do not explode
	// cardinality
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Admin API metrics
	Logins      *prometheus.CounterVec
	EffectsSent *prometheus.CounterVec
	Seeds       prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eduplay_mock_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eduplay_mock_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"method", "route"},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eduplay_mock_logins_total",
				Help: "Total number of admin login attempts",
			},
			[]string{"success"},
		),
		EffectsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eduplay_mock_live_effects_total",
				Help: "Total number of live effects accepted",
			},
			[]string{"effect_type"},
		),
		Seeds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eduplay_mock_seeds_total",
				Help: "Total number of sample data resets",
			},
		),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLogin records a login attempt.
func (m *Metrics) RecordLogin(success bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordEffect records an accepted live effect.
func (m *Metrics) RecordEffect(effectType string) {
	if m == nil {
		return
	}
	m.EffectsSent.WithLabelValues(effectType).Inc()
}

// RecordSeed records a sample data reset.
func (m *Metrics) RecordSeed() {
	if m == nil {
		return
	}
	m.Seeds.Inc()
}

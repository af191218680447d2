package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boardkit"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	signups      *prometheus.CounterVec
	logins       *prometheus.CounterVec
	passwordHash prometheus.Histogram
	tokensIssued prometheus.Counter
}

// NewPrometheus creates a recorder and registers its collectors with reg.
// Panics if registration fails (following prometheus convention).
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		signups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signups_total",
				Help:      "Total number of sign-up attempts",
			},
			[]string{"status"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts",
			},
			[]string{"mode", "status"},
		),
		passwordHash: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "password_hash_duration_seconds",
				Help:      "Password hash and verify duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		tokensIssued: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_issued_total",
				Help:      "Total number of session tokens issued",
			},
		),
	}

	reg.MustRegister(r.signups, r.logins, r.passwordHash, r.tokensIssued)
	return r
}

// NewRegistry returns a registry preloaded with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the exposition format for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: false,
	})
}

// IncSignup increments the sign-up counter.
func (r *PrometheusRecorder) IncSignup(status string) {
	r.signups.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func (r *PrometheusRecorder) IncLogin(mode, status string) {
	r.logins.WithLabelValues(mode, status).Inc()
}

// ObservePasswordHash records a hash or verify duration.
func (r *PrometheusRecorder) ObservePasswordHash(duration time.Duration) {
	r.passwordHash.Observe(duration.Seconds())
}

// IncTokenIssued increments the issued token counter.
func (r *PrometheusRecorder) IncTokenIssued() {
	r.tokensIssued.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Booking metrics
	AppointmentsCreated prometheus.Counter
	SlotsGenerated      prometheus.Histogram

	// Sweeper metrics
	SweepRuns           prometheus.Counter
	SweepErrors         prometheus.Counter
	AppointmentsExpired prometheus.Counter
	SweepDuration       prometheus.Histogram
}

// New creates metrics with the given namespace prefix, registered on the
// default registry.
func New(namespace string) *Metrics {
	return NewWith(namespace, prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry so
// repeated construction never collides.
func NewWith(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AppointmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Appointments booked through the public API",
		}),
		SlotsGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slots_generated",
			Help:      "Free slots returned per generation pass",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500},
		}),
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Expiration sweep passes executed",
		}),
		SweepErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_errors_total",
			Help:      "Expiration sweep passes that failed",
		}),
		AppointmentsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_expired_total",
			Help:      "Pending appointments auto-expired past their confirmation deadline",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time spent per expiration sweep",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

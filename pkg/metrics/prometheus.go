package metrics

import (
	"SignalGate/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ingested    *prometheus.CounterVec
	rejected    prometheus.Counter
	transitions *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ingested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalgate_signals_ingested_total",
				Help: "Total number of signals accepted, by initial status",
			},
			[]string{"status"},
		),
		rejected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "signalgate_validation_failures_total",
				Help: "Total number of payloads rejected by validation",
			},
		),
		transitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalgate_transitions_total",
				Help: "Total number of manual approval transitions, by target status",
			},
			[]string{"status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalgate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalgate_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordIngested records a stored signal with its classification.
func (r *Recorder) RecordIngested(status models.Status) {
	r.ingested.WithLabelValues(string(status)).Inc()
}

// RecordValidationFailure records a payload rejected before storage.
func (r *Recorder) RecordValidationFailure() {
	r.rejected.Inc()
}

// RecordTransition records a manual approve or reject.
func (r *Recorder) RecordTransition(status models.Status) {
	r.transitions.WithLabelValues(string(status)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

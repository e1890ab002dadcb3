package validation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultValid      = "valid"
	resultInvalid    = "invalid"
	resultUnparsable = "unparsable"
)

// Metrics provides observability for record validation.
type Metrics struct {
	// Validations by result: valid, invalid or unparsable
	Validations *prometheus.CounterVec

	// Schema violations by keyword
	Violations *prometheus.CounterVec

	// Schema validation latency, excluding JSON parsing
	Duration prometheus.Histogram
}

// NewMetrics creates validation metrics registered with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "isorecord_validations_total",
			Help: "Total record validations by result",
		}, []string{"result"}),

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "isorecord_validation_violations_total",
			Help: "Total schema violations by JSON Schema keyword",
		}, []string{"keyword"}),

		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "isorecord_validation_duration_seconds",
			Help:    "Duration of schema validation of a parsed record",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
	}
}

// observe records one validation. Safe on a nil receiver.
func (m *Metrics) observe(result string, d time.Duration, errs []ValidationError) {
	if m == nil {
		return
	}
	m.Validations.WithLabelValues(result).Inc()
	if result == resultUnparsable {
		return
	}
	m.Duration.Observe(d.Seconds())
	for _, e := range errs {
		m.Violations.WithLabelValues(e.Keyword).Inc()
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeCompileError = "compile_error"
	OutcomeError        = "error"
)

// Metrics provides observability for the submit pipeline.
type Metrics struct {
	// Submissions by outcome
	Submissions *prometheus.CounterVec

	// Compile step latency, successful or not
	CompileLatency prometheus.Histogram

	// Full namespace decode latency
	DecodeLatency prometheus.Histogram

	// Records in the current snapshot
	Records prometheus.Gauge

	// Best-effort side effects that failed, by sink
	SideEffectFailures *prometheus.CounterVec
}

// New registers every pipeline metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "typekeeper_submissions_total",
			Help: "Total submissions by outcome",
		}, []string{"outcome"}),

		CompileLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "typekeeper_compile_duration_seconds",
			Help:    "Duration of compiling one unit into an artifact",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		DecodeLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "typekeeper_decode_duration_seconds",
			Help:    "Duration of decoding every artifact in the namespace",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		Records: f.NewGauge(prometheus.GaugeOpts{
			Name: "typekeeper_records",
			Help: "Number of records in the current snapshot",
		}),

		SideEffectFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "typekeeper_side_effect_failures_total",
			Help: "Failed journal or mirror writes",
		}, []string{"sink"}), // sink: "journal", "mirror"
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveCompile(d time.Duration) {
	if m != nil {
		m.CompileLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveDecode(d time.Duration) {
	if m != nil {
		m.DecodeLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) SetRecords(n int) {
	if m != nil {
		m.Records.Set(float64(n))
	}
}

func (m *Metrics) IncrementSideEffectFailure(sink string) {
	if m != nil {
		m.SideEffectFailures.WithLabelValues(sink).Inc()
	}
}

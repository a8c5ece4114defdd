// Package metrics exposes Prometheus instruments for classification,
// validation runs, and the RPC/HTTP front ends.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

const namespace = "loopcap"

// Recorder owns one set of instruments registered on a single registry.
// It implements validation.Recorder.
type Recorder struct {
	classifications  *prometheus.CounterVec
	classifyDuration *prometheus.HistogramVec
	validations      *prometheus.CounterVec
	runs             *prometheus.CounterVec
	accuracy         prometheus.Gauge
	requests         *prometheus.CounterVec
}

var _ validation.Recorder = (*Recorder)(nil)

// New registers the instruments on reg. Passing prometheus.DefaultRegisterer
// more than once panics, like any duplicate registration.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		// classifications counts Classify calls by resulting loop type and confidence
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Sequences classified, by loop type and confidence",
		}, []string{"loop_type", "confidence"}),

		classifyDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Classification latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
		}, []string{"slice_size"}),

		validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_results_total",
			Help:      "Per-sequence validation outcomes",
		}, []string{"status"}),

		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_runs_total",
			Help:      "Completed validation runs by gate verdict",
		}, []string{"passed"}),

		accuracy: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "validation_accuracy",
			Help:      "Accuracy of the most recent validation run",
		}),

		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Classification requests by transport and outcome",
		}, []string{"transport", "outcome"}),
	}
}

// ObserveClassification implements validation.Recorder.
func (r *Recorder) ObserveClassification(res loop.Result, elapsed time.Duration) {
	lt := string(res.LoopType)
	if lt == "" {
		lt = "none"
	}
	r.classifications.WithLabelValues(lt, string(res.Confidence)).Inc()
	ss := string(res.SliceSize)
	if ss == "" {
		ss = "none"
	}
	r.classifyDuration.WithLabelValues(ss).Observe(elapsed.Seconds())
}

// ObserveValidation implements validation.Recorder.
func (r *Recorder) ObserveValidation(status validation.Status) {
	r.validations.WithLabelValues(string(status)).Inc()
}

// ObserveRun records a finished run and its gate verdict.
func (r *Recorder) ObserveRun(report validation.Report, passed bool) {
	r.runs.WithLabelValues(strconv.FormatBool(passed)).Inc()
	r.accuracy.Set(report.Accuracy())
}

// ObserveRequest counts one front-end request; outcome is "ok" or an error class.
func (r *Recorder) ObserveRequest(transport, outcome string) {
	r.requests.WithLabelValues(transport, outcome).Inc()
}

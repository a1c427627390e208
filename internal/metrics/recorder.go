package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "simagents"

// Validation results used as the "result" label.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Recorder owns the evaluator collectors. A nil *Recorder records nothing.
type Recorder struct {
	validations        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	rolloutsProcessed  prometheus.Counter
	featureSeconds     *prometheus.HistogramVec
}

type options struct {
	namespace string
	buckets   []float64
}

// Option configures NewRecorder.
type Option func(*options)

// WithNamespace overrides the metric namespace ("simagents").
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithHistogramBuckets overrides the latency buckets, in seconds.
func WithHistogramBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// NewRecorder registers the collectors with reg. Registering twice with the
// same registry panics, as with promauto.
func NewRecorder(reg prometheus.Registerer, opts ...Option) *Recorder {
	o := options{
		namespace: defaultNamespace,
		buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}
	for _, opt := range opts {
		opt(&o)
	}
	f := promauto.With(reg)

	return &Recorder{
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "validations_total",
			Help:      "Submission validations by result.",
		}, []string{"result"}),
		validationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "validation_failures_total",
			Help:      "Failed submission validations by violated contract.",
		}, []string{"kind"}),
		rolloutsProcessed: f.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "rollouts_processed_total",
			Help:      "Joint scenes whose features were computed.",
		}),
		featureSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "feature_computation_seconds",
			Help:      "Time to compute the features of one joint scene.",
			Buckets:   o.buckets,
		}, []string{"source"}),
	}
}

// RecordValidation counts one validation. An empty kind is a success.
func (r *Recorder) RecordValidation(kind string) {
	if r == nil {
		return
	}
	if kind == "" {
		r.validations.WithLabelValues(ResultOK).Inc()
		return
	}
	r.validations.WithLabelValues(ResultFailed).Inc()
	r.validationFailures.WithLabelValues(kind).Inc()
}

// AddRollouts counts processed rollouts.
func (r *Recorder) AddRollouts(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rolloutsProcessed.Add(float64(n))
}

// ObserveFeatureComputation records the duration of one feature pass;
// source is "log" or "sim".
func (r *Recorder) ObserveFeatureComputation(source string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.featureSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
}

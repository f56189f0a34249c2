// Package metrics exposes Prometheus collectors for sync steps.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "post_syncer"

	LabelTarget    = "target"
	LabelOutcome   = "outcome"
	LabelStatus    = "status"
	LabelExtension = "extension"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	records           *prometheus.CounterVec
	steps             *prometheus.CounterVec
	stepDuration      *prometheus.HistogramVec
	mediaDownloads    prometheus.Counter
	mediaReused       prometheus.Counter
	dependentFailures *prometheus.CounterVec
	extensionFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "records_total",
			Help:      "Remote records reconciled, by target and outcome.",
		}, []string{LabelTarget, LabelOutcome}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "steps_total",
			Help:      "Sync steps executed, by target and status.",
		}, []string{LabelTarget, LabelStatus}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of one sync step.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{LabelTarget}),
		mediaDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "media_downloads_total",
			Help:      "Media binaries downloaded from the source.",
		}),
		mediaReused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "media_reused_total",
			Help:      "Featured media resolved from an existing local copy.",
		}),
		dependentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dependent_failures_total",
			Help:      "Media and taxonomy failures that were skipped.",
		}, []string{"kind"}),
		extensionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "extension_failures_total",
			Help:      "Extension handler failures, by extension name.",
		}, []string{LabelExtension}),
	}

	reg.MustRegister(
		m.records,
		m.steps,
		m.stepDuration,
		m.mediaDownloads,
		m.mediaReused,
		m.dependentFailures,
		m.extensionFailures,
	)

	return m
}

func (m *Metrics) ObserveRecord(target, outcome string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(target, outcome).Inc()
}

func (m *Metrics) ObserveStep(target string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.steps.WithLabelValues(target, status).Inc()
	m.stepDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (m *Metrics) MediaDownloaded() {
	if m == nil {
		return
	}
	m.mediaDownloads.Inc()
}

func (m *Metrics) MediaReused() {
	if m == nil {
		return
	}
	m.mediaReused.Inc()
}

func (m *Metrics) DependentFailure(kind string) {
	if m == nil {
		return
	}
	m.dependentFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ExtensionFailed(name string) {
	if m == nil {
		return
	}
	m.extensionFailures.WithLabelValues(name).Inc()
}

// Package metrics provides Prometheus metrics for check and conversion runs.
// cdjready is a one-shot CLI, so metrics are collected on a private registry
// and written out for node_exporter's textfile collector instead of being
// scraped.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all cdjready metrics
	namespace = "cdjready"
)

// Recorder owns a registry and the collectors registered on it. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// checks tracks evaluated files by verdict
	checks *prometheus.CounterVec

	// conversions tracks conversion outcomes by result and failure kind
	conversions *prometheus.CounterVec

	// conversionDuration tracks wall time per conversion
	conversionDuration prometheus.Histogram
}

// New returns a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Total number of files evaluated, by verdict",
			},
			[]string{"status"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of conversions, by result and failure kind",
			},
			[]string{"result", "kind"},
		),
		conversionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Duration of single file conversions in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
	}
	r.registry.MustRegister(r.checks, r.conversions, r.conversionDuration)
	return r
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// RecordCheck records one evaluated file.
func (r *Recorder) RecordCheck(status string) {
	if r == nil {
		return
	}
	r.checks.WithLabelValues(status).Inc()
}

// RecordConversionSuccess records a successful conversion
func (r *Recorder) RecordConversionSuccess(duration time.Duration) {
	if r == nil {
		return
	}
	r.conversions.WithLabelValues("success", "").Inc()
	r.conversionDuration.Observe(duration.Seconds())
}

// RecordConversionFailure records a failed conversion
func (r *Recorder) RecordConversionFailure(kind string, duration time.Duration) {
	if r == nil {
		return
	}
	r.conversions.WithLabelValues("failure", kind).Inc()
	r.conversionDuration.Observe(duration.Seconds())
}

// WriteTextfile writes every metric to path in the text exposition format.
// The write is atomic so a concurrent collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

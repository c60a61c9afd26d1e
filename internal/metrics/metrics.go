// Package metrics records operational metrics for pipeline runs.
//
// Code depends on the narrow Backend interface; concrete metric systems
// (Prometheus Pushgateway, DogStatsD) live in subpackages. Metrics are
// optional: a Recorder built with a nil backend records nothing.
package metrics

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// Metric names emitted by Recorder.
const (
	StepTotal           = "analytics_step_total"
	StepDurationSeconds = "analytics_step_duration_seconds"
	RowsTotal           = "analytics_rows_total"
)

// Row kinds used with RecordRows.
const (
	RowsLoaded   = "loaded"
	RowsDropped  = "dropped"
	RowsOutput   = "output"
	RowsExported = "exported"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}
func (Nop) Flush() error                             { return nil }

// Multi fans every call out to several backends.
type Multi []Backend

func (m Multi) IncCounter(name string, delta float64, labels Labels) {
	for _, b := range m {
		b.IncCounter(name, delta, labels)
	}
}

func (m Multi) ObserveHistogram(name string, value float64, labels Labels) {
	for _, b := range m {
		b.ObserveHistogram(name, value, labels)
	}
}

// Flush flushes all backends concurrently and returns the first error.
func (m Multi) Flush() error {
	var g errgroup.Group
	for _, b := range m {
		g.Go(b.Flush)
	}
	return g.Wait()
}

// Recorder binds a backend to one job name.
type Recorder struct {
	job     string
	backend Backend
}

// New returns a Recorder for job. A nil backend is replaced by Nop.
func New(job string, b Backend) *Recorder {
	if b == nil {
		b = Nop{}
	}
	return &Recorder{job: job, backend: b}
}

// RecordStep counts one step execution and observes its duration, labelled
// by step and success/failure.
func (r *Recorder) RecordStep(step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    r.job,
		"step":   step,
		"status": status,
	}
	r.backend.IncCounter(StepTotal, 1, lbls)
	r.backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows adds delta to the row counter of the given kind. Non-positive
// deltas are ignored.
func (r *Recorder) RecordRows(kind string, delta int) {
	if delta <= 0 {
		return
	}
	r.backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  r.job,
		"kind": kind,
	})
}

// Flush delegates to the backend.
func (r *Recorder) Flush() error {
	return r.backend.Flush()
}

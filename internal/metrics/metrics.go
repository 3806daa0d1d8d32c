// Package metrics records operational metrics of an import run through a
// pluggable Backend. The default backend discards everything, so callers
// never need to check whether metrics are configured.
//
// Concrete backends live in subpackages (prompush, datadog) and are installed
// once at startup with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by all backends.
const (
	StepTotal    = "csvimport_step_total"
	StepDuration = "csvimport_step_duration_seconds"
	RowsTotal    = "csvimport_rows_total"
	BatchesTotal = "csvimport_batches_total"
	BytesTotal   = "csvimport_bytes_total"
	BatchRows    = "csvimport_batch_rows"
)

// Row kinds used with RecordRow.
const (
	KindScanned  = "scanned"
	KindInserted = "inserted"
	KindDropped  = "dropped"
	KindNulled   = "nulled"
	KindLost     = "lost"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a distribution metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a run step and observes its duration,
// labelled by outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind (see the Kind constants).
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatch counts one flush and observes its size.
func RecordBatch(job string, rows int, ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	b := current()
	b.IncCounter(BatchesTotal, 1, Labels{"job": job, "status": status})
	b.ObserveHistogram(BatchRows, float64(rows), Labels{"job": job, "status": status})
}

// RecordBytes adds bytes consumed by the scanners.
func RecordBytes(job string, n int64) {
	if n <= 0 {
		return
	}
	current().IncCounter(BytesTotal, float64(n), Labels{"job": job})
}

// Package report accumulates the counters of an import run. Workers add to a
// shared Aggregator concurrently; the run snapshots it once after every
// worker has finished.
package report

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
)

// Aggregator is safe for concurrent use by any number of workers.
type Aggregator struct {
	start time.Time
	now   func() time.Time

	bytesRead      atomic.Int64
	linesScanned   atomic.Int64
	rowsInserted   atomic.Int64
	rowsDropped    atomic.Int64
	fieldsNulled   atomic.Int64
	batchesFlushed atomic.Int64
	batchesFailed  atomic.Int64
	rowsLost       atomic.Int64
	workerFailures atomic.Int64
	digest         atomic.Uint64
}

// New starts the clock for a run.
func New() *Aggregator {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{start: now(), now: now}
}

// AddBytes records slice-local bytes consumed by a worker.
func (a *Aggregator) AddBytes(n int64) { a.bytesRead.Add(n) }

// AddInserted records rows the backend reported as persisted.
func (a *Aggregator) AddInserted(n int64) { a.rowsInserted.Add(n) }

// AddLines records lines read by a worker, including dropped ones.
func (a *Aggregator) AddLines(n int64) { a.linesScanned.Add(n) }

// AddDropped records lines rejected before conversion produced a row.
func (a *Aggregator) AddDropped(n int64) { a.rowsDropped.Add(n) }

// AddNulled records fields that failed to parse as their column type.
func (a *Aggregator) AddNulled(n int64) { a.fieldsNulled.Add(n) }

// AddBatch records one flush. A failed flush also records its rows as lost.
func (a *Aggregator) AddBatch(rows int, ok bool) {
	if ok {
		a.batchesFlushed.Add(1)
		return
	}
	a.batchesFailed.Add(1)
	a.rowsLost.Add(int64(rows))
}

// AddWorkerFailure records a worker that stopped early: its file could not be
// opened or read, or it panicked outside line conversion.
func (a *Aggregator) AddWorkerFailure() { a.workerFailures.Add(1) }

// AddDigest folds a per-worker content digest into the run digest. The
// combination is a wrapping sum so it does not depend on worker order.
func (a *Aggregator) AddDigest(d uint64) { a.digest.Add(d) }

// LineDigest hashes one accepted data line, without its terminator.
func LineDigest(line string) uint64 {
	return xxh3.HashString(strings.TrimRight(line, "\r\n"))
}

// Snapshot returns the current totals and the elapsed time since New.
func (a *Aggregator) Snapshot() Report {
	return Report{
		BytesRead:      a.bytesRead.Load(),
		LinesScanned:   a.linesScanned.Load(),
		RowsInserted:   a.rowsInserted.Load(),
		RowsDropped:    a.rowsDropped.Load(),
		FieldsNulled:   a.fieldsNulled.Load(),
		BatchesFlushed: a.batchesFlushed.Load(),
		BatchesFailed:  a.batchesFailed.Load(),
		RowsLost:       a.rowsLost.Load(),
		WorkerFailures: a.workerFailures.Load(),
		Digest:         a.digest.Load(),
		Elapsed:        a.now().Sub(a.start),
	}
}

// Report is an immutable view of a finished (or in-flight) run.
type Report struct {
	BytesRead      int64
	LinesScanned   int64
	RowsInserted   int64
	RowsDropped    int64
	FieldsNulled   int64
	BatchesFlushed int64
	BatchesFailed  int64
	RowsLost       int64
	WorkerFailures int64
	Digest         uint64
	Elapsed        time.Duration
}

// RowsPerSecond is the insert rate over the whole run.
func (r Report) RowsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.RowsInserted) / r.Elapsed.Seconds()
}

// String renders the one-line human summary logged at the end of a run.
func (r Report) String() string {
	return fmt.Sprintf(
		"read %s in %s, %s rows inserted (%.0f rows/s), %s dropped, %s fields nulled, batches ok=%d failed=%d, rows lost %s",
		humanize.IBytes(uint64(max(r.BytesRead, 0))),
		r.Elapsed.Round(time.Millisecond),
		humanize.Comma(r.RowsInserted),
		r.RowsPerSecond(),
		humanize.Comma(r.RowsDropped),
		humanize.Comma(r.FieldsNulled),
		r.BatchesFlushed,
		r.BatchesFailed,
		humanize.Comma(r.RowsLost),
	)
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"csvimport/internal/convert"
	"csvimport/internal/metrics"
	"csvimport/internal/partition"
	"csvimport/internal/report"
	"csvimport/internal/schema"
	"csvimport/internal/skiplog"
	"csvimport/internal/storage"

	"go.uber.org/zap"
)

// worker scans one slice. Everything it owns (file handle, batch, converter,
// skip log, local counters) is private; totals are published to agg once at
// the end, except inserted rows which are added per flush.
type worker struct {
	slice  partition.Slice
	source SourceFile
	header schema.Header
	opts   Options
	table  *storage.Table
	usable bool
	agg    *report.Aggregator
	log    *zap.Logger

	conv  *convert.Converter
	skips *skiplog.Log
	batch []convert.Row

	consumed int64
	lines    int64
	dropped  int64
	nulled   int64
	inserted int64
	digest   uint64

	published bool
}

func (w *worker) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("worker panicked", zap.Any("panic", r))
			w.agg.AddWorkerFailure()
			if !w.published {
				w.publish()
			}
		}
	}()

	w.log.Debug("Start task",
		zap.Int64("offset", w.slice.Offset),
		zap.Int64("end", w.slice.End),
	)

	if !w.usable {
		span := w.slice.End - w.slice.Offset
		w.agg.AddBytes(span)
		metrics.RecordBytes(w.opts.Job, span)
		w.log.Warn("table unusable, slice not inserted", zap.Int64("bytes", span))
		return
	}

	if err := w.scan(ctx); err != nil {
		w.log.Error("slice scan stopped", zap.Error(err))
		w.agg.AddWorkerFailure()
	}
	w.publish()
	w.log.Info(fmt.Sprintf("%d rows inserted", w.inserted),
		zap.Int64("bytes", w.consumed),
		zap.Int64("lines", w.lines),
		zap.Int64("dropped", w.dropped),
		zap.Any("skipped", w.skips.Counts()),
	)
}

func (w *worker) scan(ctx context.Context) error {
	f, err := os.Open(w.source.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.source.Path, err)
	}
	defer f.Close()

	if err := adviseSequential(f, w.slice.Offset, w.source.Length-w.slice.Offset); err != nil {
		w.log.Debug("fadvise failed", zap.Error(err))
	}

	if w.opts.SkippedDir != "" {
		l, err := skiplog.Create(w.opts.SkippedDir, skiplog.FileName(w.opts.Table, w.slice.ID))
		if err != nil {
			w.log.Warn("skipped-rows log disabled", zap.Error(err))
		} else {
			w.skips = l
			defer func() {
				if err := l.Close(); err != nil {
					w.log.Warn("close skipped-rows log", zap.Error(err))
				}
			}()
		}
	}

	w.conv = convert.New(w.header, w.opts.Separator)
	w.batch = make([]convert.Row, 0, w.opts.BatchSize)
	// The final flush runs even when reading stops on an error.
	defer w.flush(ctx)

	aligned := w.opts.Boundary != Legacy
	startsLine := true
	if aligned {
		if startsLine, err = atLineStart(f, w.slice.Offset); err != nil {
			return fmt.Errorf("probe offset %d: %w", w.slice.Offset, err)
		}
	}

	if _, err := f.Seek(w.slice.Offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek %d: %w", w.slice.Offset, err)
	}
	lr := newLineReader(f)
	pos := w.slice.Offset

	if w.slice.Offset == 0 {
		hdr, err := lr.next()
		if err != nil {
			return fmt.Errorf("skip header: %w", err)
		}
		w.consumed += int64(len(hdr))
		pos += int64(len(hdr))
	} else if !startsLine {
		// The partial line belongs to the previous slice.
		part, err := lr.next()
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("skip partial line: %w", err)
		}
		pos += int64(len(part))
	}

	limit := w.slice.End - w.slice.Offset
	for {
		if aligned {
			if pos >= w.slice.End {
				return nil
			}
		} else if w.consumed >= limit {
			return nil
		}

		line, err := lr.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read at %d: %w", pos, err)
		}
		w.consumed += int64(len(line))
		w.handle(ctx, line, pos)
		pos += int64(len(line))
	}
}

// handle converts one data line and appends it to the batch, flushing when
// the batch reaches capacity.
func (w *worker) handle(ctx context.Context, line string, off int64) {
	w.lines++
	w.digest += report.LineDigest(line)

	// A blank line is a single empty field: a row for one-column headers,
	// a field-count reject otherwise.
	row, res, ok, panicked := w.convert(line)
	switch {
	case panicked:
		w.reject(skiplog.ReasonPanic, line, off)
		return
	case !ok && strings.TrimRight(line, "\r\n") == "":
		w.reject(skiplog.ReasonBlank, line, off)
		return
	case !ok:
		w.reject(skiplog.ReasonFieldCount, line, off)
		return
	}
	w.nulled += int64(res.Nulled)
	w.batch = append(w.batch, row)
	if len(w.batch) >= w.opts.BatchSize {
		w.flush(ctx)
	}
}

func (w *worker) convert(line string) (row convert.Row, res convert.Result, ok, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("line conversion panicked", zap.Any("panic", r))
			row, ok, panicked = nil, false, true
		}
	}()
	row, res, ok = w.conv.Convert(line)
	return row, res, ok, false
}

func (w *worker) reject(reason, line string, off int64) {
	w.dropped++
	w.skips.Add(reason, w.slice.ID, off, line)
}

// flush inserts the batch and clears it whatever the outcome. Failed rows
// are not retried.
func (w *worker) flush(ctx context.Context) {
	if len(w.batch) == 0 {
		return
	}
	rows := len(w.batch)
	n, ok := w.table.Insert(ctx, w.batch)
	w.batch = w.batch[:0]

	w.inserted += n
	w.agg.AddInserted(n)
	w.agg.AddBatch(rows, ok)
	metrics.RecordBatch(w.opts.Job, rows, ok)
	metrics.RecordRow(w.opts.Job, metrics.KindInserted, n)
	if !ok {
		metrics.RecordRow(w.opts.Job, metrics.KindLost, int64(rows))
	}
}

// publish adds the local counters to the shared totals. It runs once.
func (w *worker) publish() {
	w.published = true
	w.agg.AddBytes(w.consumed)
	w.agg.AddLines(w.lines)
	w.agg.AddDropped(w.dropped)
	w.agg.AddNulled(w.nulled)
	w.agg.AddDigest(w.digest)

	job := w.opts.Job
	metrics.RecordBytes(job, w.consumed)
	metrics.RecordRow(job, metrics.KindScanned, w.lines)
	metrics.RecordRow(job, metrics.KindDropped, w.dropped)
	metrics.RecordRow(job, metrics.KindNulled, w.nulled)
}

// Package importer loads a delimited file into a storage backend. The file
// is cut into byte-range slices that independent workers scan concurrently;
// each worker converts its lines into typed rows and flushes them in batches.
//
// A run has two barriers: the header is parsed and the destination table
// provisioned before any worker starts, and the final report is produced
// only after every worker has returned. Workers share nothing but the
// report.Aggregator; errors inside a worker are logged and never stop the
// other workers or the run.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"csvimport/internal/ddl"
	"csvimport/internal/metrics"
	"csvimport/internal/partition"
	"csvimport/internal/report"
	"csvimport/internal/schema"
	"csvimport/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrSourceMissing is returned when the source file does not exist.
	ErrSourceMissing = errors.New("source file missing")
	// ErrSourceEmpty is returned for a zero-length source file.
	ErrSourceEmpty = errors.New("source file empty")
)

// SourceFile is the immutable description of the input.
type SourceFile struct {
	Path   string
	Length int64
}

// Inspection is everything known about an import before any row is read.
type Inspection struct {
	Source SourceFile
	Header schema.Header
	Plan   partition.Plan
	Table  ddl.TableDef
}

// Inspect stats the source, parses its header and plans the slices.
func Inspect(opts Options) (Inspection, error) {
	opts = opts.withDefaults()

	fi, err := os.Stat(opts.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Inspection{}, fmt.Errorf("%w: %s", ErrSourceMissing, opts.Path)
		}
		return Inspection{}, fmt.Errorf("stat %s: %w", opts.Path, err)
	}
	if fi.IsDir() {
		return Inspection{}, fmt.Errorf("%w: %s is a directory", ErrSourceMissing, opts.Path)
	}
	if fi.Size() == 0 {
		return Inspection{}, fmt.Errorf("%w: %s", ErrSourceEmpty, opts.Path)
	}

	h, err := schema.ReadHeaderFile(opts.Path, opts.Separator)
	if err != nil {
		return Inspection{}, err
	}

	return Inspection{
		Source: SourceFile{Path: opts.Path, Length: fi.Size()},
		Header: h,
		Plan:   partition.New(fi.Size(), opts.Workers),
		Table:  h.Table(opts.Table),
	}, nil
}

// Importer runs imports against one backend.
type Importer struct {
	backend storage.Backend
	opts    Options
	log     *zap.Logger
	now     func() time.Time
}

// New returns an Importer. A nil logger discards output.
func New(b storage.Backend, opts Options, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{backend: b, opts: opts.withDefaults(), log: log, now: time.Now}
}

// Run performs the import and returns its report. Only pre-run failures
// (missing or empty source, unreadable header) are returned as errors;
// everything after that is reflected in the report and the log.
func (im *Importer) Run(ctx context.Context) (report.Report, error) {
	agg := report.NewWithClock(im.now)
	job := im.opts.Job

	start := im.now()
	insp, err := Inspect(im.opts)
	metrics.RecordStep(job, "inspect", err, im.now().Sub(start))
	if err != nil {
		return report.Report{}, err
	}

	im.log.Info("import planned",
		zap.String("path", insp.Source.Path),
		zap.Int64("bytes", insp.Source.Length),
		zap.Int("workers", insp.Plan.Workers),
		zap.Int64("slice_length", insp.Plan.SliceLength),
		zap.Strings("columns", insp.Header.Names()),
		zap.String("boundary", string(im.opts.Boundary)),
	)

	table := storage.NewTable(im.backend, insp.Table, im.log)
	start = im.now()
	usable := table.Ensure(ctx)
	var ensureErr error
	if !usable {
		ensureErr = errors.New("table unusable")
		im.log.Warn("destination table unusable; workers will read but not insert")
	}
	metrics.RecordStep(job, "ensure_table", ensureErr, im.now().Sub(start))

	start = im.now()
	var g errgroup.Group
	for _, sl := range insp.Plan.Slices() {
		w := &worker{
			slice:  sl,
			source: insp.Source,
			header: insp.Header,
			opts:   im.opts,
			table:  table,
			usable: usable,
			agg:    agg,
			log:    im.log.Named("worker").With(zap.Int("slice", sl.ID)),
		}
		g.Go(func() error {
			w.run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	metrics.RecordStep(job, "scan", nil, im.now().Sub(start))

	rep := agg.Snapshot()
	im.log.Info("import finished",
		zap.String("summary", rep.String()),
		zap.Int64("bytes_read", rep.BytesRead),
		zap.Int64("rows_inserted", rep.RowsInserted),
		zap.Int64("rows_dropped", rep.RowsDropped),
		zap.Int64("worker_failures", rep.WorkerFailures),
		zap.Duration("elapsed", rep.Elapsed),
		zap.String("digest", fmt.Sprintf("%016x", rep.Digest)),
	)
	return rep, nil
}

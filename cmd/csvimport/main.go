// Command csvimport loads a delimited file into a database table. The file
// is cut into byte-range slices that are scanned and bulk-inserted
// concurrently.
//
// main stays tiny: flags and environment are bound by internal/config, and
// every side effect (backend, logger and metrics constructors, output) comes
// through Deps so run() can be tested without sockets.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"csvimport/internal/config"
	"csvimport/internal/ddl"
	"csvimport/internal/importer"
	"csvimport/internal/logging"
	"csvimport/internal/metrics"
	"csvimport/internal/metrics/datadog"
	"csvimport/internal/metrics/prompush"
	"csvimport/internal/report"
	"csvimport/internal/storage"
	_ "csvimport/internal/storage/all"
	duckddl "csvimport/internal/storage/duckdb/ddl"
	msddl "csvimport/internal/storage/mssql/ddl"
	myddl "csvimport/internal/storage/mysql/ddl"
	pgddl "csvimport/internal/storage/postgres/ddl"
	liteddl "csvimport/internal/storage/sqlite/ddl"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Deps holds the constructors run() would otherwise hard-code.
type Deps struct {
	NewBackend     func(ctx context.Context, cfg storage.Config) (storage.Backend, error)
	Kinds          func() []string
	NewLogger      func(cfg logging.Config) (*zap.Logger, error)
	NewPushgateway func(job, url string) (metrics.Backend, error)
	NewDatadog     func(cfg datadog.Config) (metrics.Backend, error)
	Stdout         io.Writer
}

func defaultDeps() Deps {
	return Deps{
		NewBackend: storage.New,
		Kinds:      storage.ListKinds,
		NewLogger:  logging.New,
		NewPushgateway: func(job, url string) (metrics.Backend, error) {
			return prompush.NewBackend(job, url)
		},
		NewDatadog: func(cfg datadog.Config) (metrics.Backend, error) {
			return datadog.NewBackend(cfg)
		},
		Stdout: os.Stdout,
	}
}

func importerOptions(cfg *config.Config) (importer.Options, error) {
	b, err := importer.ParseBoundary(cfg.Boundary)
	if err != nil {
		return importer.Options{}, err
	}
	return importer.Options{
		Path:       cfg.CSVPath,
		Table:      cfg.Table,
		BatchSize:  cfg.BatchSize,
		Separator:  cfg.SeparatorByte(),
		Boundary:   b,
		Workers:    cfg.Workers,
		SkippedDir: cfg.SkippedDir,
		Job:        cfg.Table,
	}, nil
}

// setupMetrics installs the configured metrics backend and returns a func
// that flushes it and restores the no-op backend.
func setupMetrics(cfg *config.Config, deps Deps, log *zap.Logger) (func(), error) {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Metrics {
	case "", "none":
		return func() {}, nil
	case "pushgateway":
		b, err = deps.NewPushgateway("csvimport", cfg.PushgatewayURL)
	case "datadog":
		b, err = deps.NewDatadog(datadog.Config{
			Addr:      cfg.StatsdAddr,
			Namespace: "csvimport.",
			Tags:      []string{"table:" + cfg.Table, "storage:" + cfg.Storage},
		})
	default:
		return nil, fmt.Errorf("unsupported --metrics=%q", cfg.Metrics)
	}
	if err != nil {
		return nil, fmt.Errorf("metrics %s: %w", cfg.Metrics, err)
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
		metrics.SetBackend(nil)
	}, nil
}

// run validates cfg, opens the backend, imports and optionally verifies
// the persisted row count.
func run(ctx context.Context, cfg *config.Config, deps Deps, log *zap.Logger) (report.Report, error) {
	issues := config.Validate(cfg, deps.Kinds())
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning {
			log.Warn("config", zap.String("path", iss.Path), zap.String("message", iss.Message))
		}
	}
	if err := config.Err(issues); err != nil {
		return report.Report{}, err
	}
	opts, err := importerOptions(cfg)
	if err != nil {
		return report.Report{}, err
	}

	done, err := setupMetrics(cfg, deps, log)
	if err != nil {
		return report.Report{}, err
	}
	defer done()

	backend, err := deps.NewBackend(ctx, storage.Config{
		Kind:     cfg.Storage,
		DSN:      cfg.StorageDSN(),
		Database: cfg.Database,
		Unlogged: cfg.Unlogged,
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("open %s backend: %w", cfg.Storage, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("close backend", zap.Error(err))
		}
	}()

	rep, err := importer.New(backend, opts, log).Run(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("import %s: %w", cfg.CSVPath, err)
	}
	fmt.Fprintln(deps.Stdout, rep.String())

	if cfg.Verify {
		n, err := storage.NewTable(backend, ddl.TableDef{FQN: cfg.Table}, log).Count(ctx)
		if err != nil {
			return rep, fmt.Errorf("verify: %w", err)
		}
		log.Info("verified persisted rows", zap.Int64("persisted", n), zap.Int64("inserted", rep.RowsInserted))
		fmt.Fprintf(deps.Stdout, "%s rows persisted in %s\n", humanize.Comma(n), cfg.Table)
	}
	return rep, nil
}

// createTableSQL renders def in the dialect of kind.
func createTableSQL(kind string, def ddl.TableDef, unlogged bool) (string, error) {
	switch kind {
	case "postgres":
		return pgddl.BuildCreateTableSQL(def, unlogged)
	case "mssql":
		return msddl.BuildCreateTableSQL(def)
	case "mysql":
		return myddl.BuildCreateTableSQL(def)
	case "sqlite":
		return liteddl.BuildCreateTableSQL(def)
	case "duckdb":
		return duckddl.BuildCreateTableSQL(def)
	default:
		return ddl.BuildCreateTableSQL(def)
	}
}

// plan prints the slice plan and the table DDL without opening a backend.
func plan(cfg *config.Config, w io.Writer) error {
	opts, err := importerOptions(cfg)
	if err != nil {
		return err
	}
	insp, err := importer.Inspect(opts)
	if err != nil {
		return err
	}
	stmt, err := createTableSQL(cfg.Storage, insp.Table, cfg.Unlogged)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "source:  %s (%s)\n", insp.Source.Path, humanize.IBytes(uint64(insp.Source.Length)))
	fmt.Fprintf(w, "workers: %d, slice %s\n", insp.Plan.Workers, humanize.IBytes(uint64(insp.Plan.SliceLength)))
	for _, sl := range insp.Plan.Slices() {
		fmt.Fprintf(w, "  slice %d: [%d, %d)\n", sl.ID, sl.Offset, sl.End)
	}
	cols := make([]string, 0, insp.Header.Len())
	for _, c := range insp.Header.Columns {
		cols = append(cols, c.Name+":"+c.Type.String())
	}
	fmt.Fprintf(w, "columns: %s\n", strings.Join(cols, ", "))
	fmt.Fprintln(w, stmt)
	return nil
}

func newRootCmd(deps Deps, getenv func(string) string) *cobra.Command {
	var log *zap.Logger

	root := &cobra.Command{
		Use:           "csvimport",
		Short:         "Import a delimited file into a database table",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	cfg := config.Bind(root.PersistentFlags(), getenv)

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := cfg.ApplySettings(cmd.Flags(), getenv); err != nil {
			return err
		}
		l, err := deps.NewLogger(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogFormat})
		if err != nil {
			return err
		}
		log = l
		zap.ReplaceGlobals(log)
		return nil
	}
	root.PersistentPostRun = func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	}
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		_, err := run(cmd.Context(), cfg, deps, log)
		return err
	}

	root.AddCommand(&cobra.Command{
		Use:   "plan",
		Short: "Show the slice plan and table DDL without importing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return plan(cfg, deps.Stdout)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "backends",
		Short: "List the registered storage kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range deps.Kinds() {
				fmt.Fprintln(deps.Stdout, k)
			}
			return nil
		},
	})
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(defaultDeps(), os.Getenv).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

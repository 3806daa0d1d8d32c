package storage

import (
	"context"
	"fmt"

	"csvimport/internal/convert"
	"csvimport/internal/ddl"

	"go.uber.org/zap"
)

// Table binds a Backend to one destination table and flattens backend errors
// into the shapes workers consume: Ensure reports usability, Insert reports
// an inserted count. Errors are logged here and never reach a worker.
type Table struct {
	backend Backend
	def     ddl.TableDef
	columns []string
	log     *zap.Logger
}

// NewTable returns a Table for def. A nil logger discards output.
func NewTable(b Backend, def ddl.TableDef, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	return &Table{
		backend: b,
		def:     def,
		columns: def.ColumnNames(),
		log:     log.With(zap.String("table", def.FQN)),
	}
}

// Name returns the destination table name.
func (t *Table) Name() string { return t.def.FQN }

// Ensure creates the table if needed and reports whether it is usable.
func (t *Table) Ensure(ctx context.Context) bool {
	if err := t.backend.EnsureTable(ctx, t.def); err != nil {
		t.log.Error("ensure table failed", zap.Error(err))
		return false
	}
	return true
}

// Insert flushes rows and returns the inserted count. On failure the count is
// zero and ok is false; the rows are not retried. A panic inside the backend
// is recovered and treated as a failure.
func (t *Table) Insert(ctx context.Context, rows []convert.Row) (n int64, ok bool) {
	if len(rows) == 0 {
		return 0, true
	}
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("bulk insert panicked", zap.Int("rows", len(rows)), zap.Any("panic", r))
			n, ok = 0, false
		}
	}()

	n, err := t.backend.BulkInsert(ctx, t.def.FQN, t.columns, rows)
	if err != nil {
		t.log.Error("bulk insert failed", zap.Int("rows", len(rows)), zap.Error(err))
		return 0, false
	}
	return n, true
}

// Count returns the number of persisted rows.
func (t *Table) Count(ctx context.Context) (int64, error) {
	n, err := t.backend.CountRows(ctx, t.def.FQN)
	if err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", t.def.FQN, err)
	}
	return n, nil
}

// Package memory registers the "memory" storage kind: an in-process backend
// that keeps every inserted row. It backs dry runs and tests. The DSN is
// ignored.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"csvimport/internal/convert"
	"csvimport/internal/ddl"
	"csvimport/internal/storage"
)

// Kind is the storage kind this package registers.
const Kind = "memory"

// ErrNoTable is returned when inserting into or counting a table that was
// never ensured.
var ErrNoTable = errors.New("memory: no such table")

// Backend is safe for concurrent use.
type Backend struct {
	mu      sync.Mutex
	tables  map[string]*table
	batches []int

	// FailInsert, when set, is consulted before every batch; a non-nil
	// result fails the batch without storing it.
	FailInsert func(batch int, rows []convert.Row) error
}

type table struct {
	def  ddl.TableDef
	rows []convert.Row
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{tables: map[string]*table{}}
}

// EnsureTable records def; existing tables are left untouched.
func (b *Backend) EnsureTable(ctx context.Context, def ddl.TableDef) error {
	if len(def.Columns) == 0 {
		return fmt.Errorf("memory: table %s has no columns", def.FQN)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tables[def.FQN]; !ok {
		b.tables[def.FQN] = &table{def: def}
	}
	return nil
}

// BulkInsert stores a copy of rows.
func (b *Backend) BulkInsert(ctx context.Context, name string, columns []string, rows []convert.Row) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoTable, name)
	}
	if len(columns) != len(t.def.Columns) {
		return 0, fmt.Errorf("memory: %d columns for table %s with %d", len(columns), name, len(t.def.Columns))
	}
	if b.FailInsert != nil {
		if err := b.FailInsert(len(b.batches), rows); err != nil {
			b.batches = append(b.batches, 0)
			return 0, err
		}
	}
	for _, r := range rows {
		t.rows = append(t.rows, append(convert.Row(nil), r...))
	}
	b.batches = append(b.batches, len(rows))
	return int64(len(rows)), nil
}

// CountRows returns the stored row count.
func (b *Backend) CountRows(ctx context.Context, name string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tables[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoTable, name)
	}
	return int64(len(t.rows)), nil
}

// Rows returns a copy of the stored rows of name.
func (b *Backend) Rows(name string) []convert.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tables[name]
	if !ok {
		return nil
	}
	return append([]convert.Row(nil), t.rows...)
}

// Batches returns the size of every BulkInsert call in arrival order; failed
// batches are recorded as 0.
func (b *Backend) Batches() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.batches...)
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(), nil
	})
}

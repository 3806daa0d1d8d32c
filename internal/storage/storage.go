// Package storage defines the destination contract of an import and a
// registry of backends. Concrete backends live in subpackages and register
// themselves at init time; importing internal/storage/all enables every
// built-in kind.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"csvimport/internal/convert"
	"csvimport/internal/ddl"
)

// Backend is what an import needs from a database.
type Backend interface {
	// EnsureTable creates the table when it does not exist. Calling it again
	// for an existing table succeeds without changes.
	EnsureTable(ctx context.Context, def ddl.TableDef) error
	// BulkInsert writes rows (aligned to columns) and returns the number of
	// rows the database reported as inserted.
	BulkInsert(ctx context.Context, table string, columns []string, rows []convert.Row) (int64, error)
	// CountRows returns the number of rows currently in table.
	CountRows(ctx context.Context, table string) (int64, error)
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Kind string
	DSN  string
	// Database is created before use by backends that support it (mssql),
	// when set.
	Database string
	// Unlogged creates postgres tables as UNLOGGED.
	Unlogged bool
}

// Factory opens a Backend for cfg.
type Factory func(ctx context.Context, cfg Config) (Backend, error)

// ErrUnsupportedKind is returned by New for unregistered kinds.
var ErrUnsupportedKind = errors.New("unsupported storage.kind")

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens the backend registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Backend, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w=%s", ErrUnsupportedKind, cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

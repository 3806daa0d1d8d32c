package importer

import (
	"fmt"
	"strings"

	"csvimport/internal/schema"
)

// Boundary selects how a worker treats lines that straddle slice edges.
type Boundary string

const (
	// Aligned workers skip the partial line at their start and finish the
	// line that crosses their end, so every line is read exactly once.
	Aligned Boundary = "aligned"
	// Legacy workers start reading at their raw offset and stop once they
	// have consumed at least their slice length. A line cut by an offset is
	// usually rejected by the field-count check.
	Legacy Boundary = "legacy"
)

// ParseBoundary accepts "aligned" or "legacy" (case-insensitive).
func ParseBoundary(s string) (Boundary, error) {
	switch b := Boundary(strings.ToLower(strings.TrimSpace(s))); b {
	case Aligned, Legacy:
		return b, nil
	default:
		return "", fmt.Errorf("unknown boundary mode %q (want %s or %s)", s, Aligned, Legacy)
	}
}

// DefaultBatchSize is the number of rows per bulk insert.
const DefaultBatchSize = 1000

// Options configure one import.
type Options struct {
	// Path is the source file.
	Path string
	// Table is the destination table; schema.DefaultTable when empty.
	Table string
	// BatchSize is the flush capacity of every worker's batch.
	BatchSize int
	// Separator splits fields.
	Separator byte
	Boundary  Boundary
	// Workers overrides the size-tiered concurrency degree when > 0.
	Workers int
	// SkippedDir receives one rejected-lines CSV per worker when set.
	SkippedDir string
	// Job labels metrics; defaults to the table name.
	Job string
}

func (o Options) withDefaults() Options {
	if o.Table == "" {
		o.Table = schema.DefaultTable
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Separator == 0 {
		o.Separator = ','
	}
	if o.Boundary == "" {
		o.Boundary = Aligned
	}
	if o.Job == "" {
		o.Job = o.Table
	}
	return o
}

// Package skiplog writes rejected input lines to a CSV file so they can be
// inspected or replayed. Each worker owns one Log; a Log is not safe for
// concurrent use.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Reasons recorded by the importer.
const (
	ReasonBlank      = "blank"
	ReasonFieldCount = "field_count"
	ReasonPanic      = "panic"
)

// Header is the first record of every skipped-rows file.
var Header = []string{"reason", "slice", "offset", "raw_line"}

// Log appends skipped lines to a CSV file and counts them per reason. The
// zero value (and a nil *Log) discards everything.
type Log struct {
	reasons map[string]int
	f       *os.File
	w       *csv.Writer
}

// Create makes dir if needed and opens path inside it for writing.
func Create(dir, name string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("skiplog: create dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("skiplog: open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("skiplog: write header: %w", err)
	}
	return &Log{reasons: make(map[string]int), f: f, w: w}, nil
}

// FileName is the per-slice file name used by the importer.
func FileName(table string, slice int) string {
	return fmt.Sprintf("%s.slice-%03d.skipped.csv", table, slice)
}

// Add records one skipped line. The line terminator is dropped.
func (l *Log) Add(reason string, slice int, offset int64, raw string) {
	if l == nil || l.w == nil {
		return
	}
	l.reasons[reason]++
	_ = l.w.Write([]string{reason, strconv.Itoa(slice), strconv.FormatInt(offset, 10), strings.TrimRight(raw, "\r\n")})
}

// Counts returns a copy of the per-reason totals.
func (l *Log) Counts() map[string]int {
	out := map[string]int{}
	if l == nil {
		return out
	}
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Close flushes buffered records and closes the file.
func (l *Log) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	l.w.Flush()
	werr := l.w.Error()
	cerr := l.f.Close()
	l.w = nil
	if werr != nil {
		return fmt.Errorf("skiplog: flush: %w", werr)
	}
	return cerr
}

// Package partition decides how many workers scan a file and which byte range
// each of them owns.
package partition

import "runtime"

// Size thresholds for the concurrency tiers. A file must be strictly larger
// than a threshold to reach its tier.
const (
	KiB = int64(1) << 10
	MiB = KiB << 10
	GiB = MiB << 10
)

var tiers = []struct {
	above   int64
	workers int
}{
	{256 * MiB, 16},
	{16 * MiB, 8},
	{1 * MiB, 4},
	{64 * KiB, 2},
}

// numCPU is swapped in tests.
var numCPU = runtime.NumCPU

// Degree returns the number of concurrent workers for a file of length bytes.
// Files above 4 GiB use one worker per hardware thread. The result is at
// least 1.
func Degree(length int64) int {
	if length > 4*GiB {
		return max(numCPU(), 1)
	}
	for _, t := range tiers {
		if length > t.above {
			return t.workers
		}
	}
	return 1
}

// Slice is the byte range assigned to one worker. The range is nominal: the
// scanner decides how lines straddling Offset and End are attributed.
type Slice struct {
	ID     int
	Offset int64
	Length int64 // target length S
	End    int64 // nominal end; the file length for the last slice
}

// Plan is the static assignment of slices for one file.
type Plan struct {
	FileLength  int64
	Workers     int
	SliceLength int64
}

// New plans a file of length bytes. A workers value above zero overrides the
// tiered degree. The worker count never exceeds the file length, so every
// slice of a non-empty file has a positive target length.
func New(length int64, workers int) Plan {
	c := workers
	if c <= 0 {
		c = Degree(length)
	}
	if length > 0 && int64(c) > length {
		c = int(length)
	}
	c = max(c, 1)
	return Plan{FileLength: length, Workers: c, SliceLength: length / int64(c)}
}

// Slices lists every slice in offset order. Slice i starts at SliceLength*i;
// the remainder of the integer division belongs to the last slice.
func (p Plan) Slices() []Slice {
	out := make([]Slice, p.Workers)
	for i := range out {
		off := p.SliceLength * int64(i)
		end := off + p.SliceLength
		if i == p.Workers-1 {
			end = p.FileLength
		}
		out[i] = Slice{ID: i, Offset: off, Length: p.SliceLength, End: end}
	}
	return out
}

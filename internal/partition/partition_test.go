package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegree_Tiers(t *testing.T) {
	orig := numCPU
	numCPU = func() int { return 12 }
	t.Cleanup(func() { numCPU = orig })

	tests := []struct {
		length int64
		want   int
	}{
		{0, 1},
		{100, 1},
		{64 * KiB, 1},
		{64*KiB + 1, 2},
		{MiB, 2},
		{MiB + 1, 4},
		{16 * MiB, 4},
		{16*MiB + 1, 8},
		{256 * MiB, 8},
		{256*MiB + 1, 16},
		{4 * GiB, 16},
		{4*GiB + 1, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Degree(tt.length), "length=%d", tt.length)
	}
}

func TestDegree_AtLeastOneWorker(t *testing.T) {
	orig := numCPU
	numCPU = func() int { return 0 }
	t.Cleanup(func() { numCPU = orig })

	assert.Equal(t, 1, Degree(5*GiB))
}

func TestNew_SliceLength(t *testing.T) {
	t.Parallel()

	p := New(2*MiB+3, 0)
	assert.Equal(t, 4, p.Workers)
	assert.Equal(t, (2*MiB+3)/4, p.SliceLength)

	slices := p.Slices()
	require.Len(t, slices, 4)
	for i, s := range slices {
		assert.Equal(t, i, s.ID)
		assert.Equal(t, p.SliceLength*int64(i), s.Offset)
	}
	assert.Equal(t, p.FileLength, slices[3].End, "last slice absorbs the remainder")
	assert.Equal(t, slices[1].Offset, slices[0].End)
}

func TestNew_Override(t *testing.T) {
	t.Parallel()

	p := New(1000, 8)
	assert.Equal(t, 8, p.Workers)
	assert.Equal(t, int64(125), p.SliceLength)
}

func TestNew_ClampsToLength(t *testing.T) {
	t.Parallel()

	p := New(3, 8)
	assert.Equal(t, 3, p.Workers)
	assert.Equal(t, int64(1), p.SliceLength)

	p = New(0, 4)
	assert.Equal(t, 4, p.Workers)
	assert.Equal(t, int64(0), p.SliceLength)
}

func TestSlices_CoverFile(t *testing.T) {
	t.Parallel()

	for _, c := range []int{1, 2, 3, 7, 16} {
		p := New(1001, c)
		var covered int64
		for _, s := range p.Slices() {
			covered += s.End - s.Offset
		}
		assert.Equal(t, int64(1001), covered, "workers=%d", c)
	}
}

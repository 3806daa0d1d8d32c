package datadog

import (
	"testing"

	"csvimport/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	counts []sample
	hists  []sample
	closed bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, rate float64) error {
	f.counts = append(f.counts, sample{name, float64(value), tags})
	return nil
}
func (f *fakeClient) Histogram(name string, value float64, tags []string, rate float64) error {
	f.hists = append(f.hists, sample{name, value, tags})
	return nil
}
func (f *fakeClient) Flush() error { return nil }
func (f *fakeClient) Close() error { f.closed = true; return nil }

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	_, err := NewBackend(Config{})
	assert.Error(t, err)
}

func TestBackend_ForwardsWithTags(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"kind": "inserted", "job": "orders"})
	b.ObserveHistogram(metrics.BatchRows, 1000, nil)

	require.Len(t, fc.counts, 1)
	assert.Equal(t, []string{"job:orders", "kind:inserted"}, fc.counts[0].tags)
	assert.Equal(t, float64(3), fc.counts[0].value)
	require.Len(t, fc.hists, 1)
	assert.Nil(t, fc.hists[0].tags)

	require.NoError(t, b.Flush())
	assert.True(t, fc.closed)
}

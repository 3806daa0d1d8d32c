package report

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns start on the first call and start+step afterwards.
type fakeClock struct {
	mu    sync.Mutex
	t     time.Time
	step  time.Duration
	calls int
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls == 1 {
		return c.t
	}
	return c.t.Add(c.step)
}

func TestAggregator_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	agg := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				agg.AddBytes(3)
				agg.AddInserted(1)
				agg.AddLines(1)
			}
			agg.AddBatch(10, true)
			agg.AddDigest(1)
		}()
	}
	wg.Wait()

	r := agg.Snapshot()
	assert.Equal(t, int64(48000), r.BytesRead)
	assert.Equal(t, int64(16000), r.RowsInserted)
	assert.Equal(t, int64(16000), r.LinesScanned)
	assert.Equal(t, int64(16), r.BatchesFlushed)
	assert.Equal(t, uint64(16), r.Digest)
}

func TestAggregator_FailedBatch(t *testing.T) {
	t.Parallel()

	agg := New()
	agg.AddBatch(7, false)
	agg.AddBatch(3, true)
	agg.AddWorkerFailure()

	r := agg.Snapshot()
	assert.Equal(t, int64(1), r.BatchesFailed)
	assert.Equal(t, int64(1), r.BatchesFlushed)
	assert.Equal(t, int64(7), r.RowsLost)
	assert.Equal(t, int64(1), r.WorkerFailures)
}

func TestDigest_OrderIndependent(t *testing.T) {
	t.Parallel()

	lines := []string{"a,1\n", "b,2\r\n", "c,3"}

	forward := New()
	for _, l := range lines {
		forward.AddDigest(LineDigest(l))
	}
	backward := New()
	for i := len(lines) - 1; i >= 0; i-- {
		backward.AddDigest(LineDigest(lines[i]))
	}
	assert.Equal(t, forward.Snapshot().Digest, backward.Snapshot().Digest)
	assert.Equal(t, LineDigest("b,2"), LineDigest("b,2\r\n"))
}

func TestReport_String(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Unix(0, 0), step: 2 * time.Second}
	agg := NewWithClock(clk.Now)
	agg.AddBytes(2048)
	agg.AddInserted(1234)
	agg.AddDropped(2)

	r := agg.Snapshot()
	require.Equal(t, 2*time.Second, r.Elapsed)
	assert.InDelta(t, 617.0, r.RowsPerSecond(), 0.001)

	s := r.String()
	assert.Contains(t, s, "read 2.0 KiB in 2s")
	assert.Contains(t, s, "1,234 rows inserted (617 rows/s)")
	assert.Contains(t, s, "2 dropped")
}

func TestReport_RowsPerSecondZeroElapsed(t *testing.T) {
	t.Parallel()
	assert.Equal(t, float64(0), Report{RowsInserted: 5}.RowsPerSecond())
}

package prompush

import (
	"errors"
	"testing"

	"csvimport/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend_RequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewBackend("job", "")
	assert.Error(t, err)
}

func TestBackend_CountsAndPushes(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("", "http://pushgateway:9091")
	require.NoError(t, err)
	assert.Equal(t, "csvimport", b.jobName)

	var pushedJob string
	b.pusher = func(url, job string, g prometheus.Gatherer) error {
		pushedJob = job
		mfs, err := g.Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, mfs)
		return nil
	}

	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"kind": metrics.KindInserted})
	b.IncCounter(metrics.RowsTotal, 2, metrics.Labels{"kind": metrics.KindInserted})
	b.IncCounter(metrics.BatchesTotal, 1, metrics.Labels{"status": "success"})
	b.IncCounter(metrics.BytesTotal, 100, nil)
	b.IncCounter("unknown_metric", 1, nil)
	b.ObserveHistogram(metrics.BatchRows, 7, metrics.Labels{"status": "success"})
	b.ObserveHistogram(metrics.StepDuration, 0.5, metrics.Labels{"step": "scan", "status": "success"})

	assert.Equal(t, float64(7), testutil.ToFloat64(b.rowCounter.WithLabelValues(metrics.KindInserted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(b.batchCounter.WithLabelValues("success")))
	assert.Equal(t, float64(100), testutil.ToFloat64(b.bytesCounter))

	require.NoError(t, b.Flush())
	assert.Equal(t, "csvimport", pushedJob)
}

func TestBackend_FlushError(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("job", "http://pushgateway:9091")
	require.NoError(t, err)
	b.pusher = func(string, string, prometheus.Gatherer) error { return errors.New("unreachable") }

	err = b.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompush: push")
}

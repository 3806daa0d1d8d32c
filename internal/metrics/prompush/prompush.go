// Package prompush is a Prometheus Pushgateway backend for the metrics
// package. A batch importer is short-lived, so metrics are pushed once at the
// end of the run instead of being scraped.
package prompush

import (
	"fmt"

	"csvimport/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend collects into a private registry and pushes it on Flush.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec
	stepDuration *prometheus.SummaryVec
	rowCounter   *prometheus.CounterVec
	batchCounter *prometheus.CounterVec
	batchRows    *prometheus.HistogramVec
	bytesCounter prometheus.Counter

	// pusher is swapped in tests.
	pusher func(url, job string, g prometheus.Gatherer) error
}

// NewBackend builds a backend pushing to gatewayURL under jobName.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "csvimport"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Import step executions by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Import step duration in seconds by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"step", "status"}),
		rowCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows by kind (scanned, inserted, dropped, nulled, lost).",
		}, []string{"kind"}),
		batchCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Bulk insert batches by status.",
		}, []string{"status"}),
		batchRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metrics.BatchRows,
			Help:    "Rows per bulk insert batch.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"status"}),
		bytesCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BytesTotal,
			Help: "Bytes consumed by slice scanners.",
		}),
		pusher: func(url, job string, g prometheus.Gatherer) error {
			return push.New(url, job).Gatherer(g).Push()
		},
	}

	for _, c := range []prometheus.Collector{
		b.stepCounter, b.stepDuration, b.rowCounter, b.batchCounter, b.batchRows, b.bytesCounter,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}
	return b, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batchCounter.WithLabelValues(labels["status"]).Add(delta)
	case metrics.BytesTotal:
		b.bytesCounter.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StepDuration:
		b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
	case metrics.BatchRows:
		b.batchRows.WithLabelValues(labels["status"]).Observe(value)
	}
}

// Flush pushes the registry to the Pushgateway.
func (b *Backend) Flush() error {
	if err := b.pusher(b.gatewayURL, b.jobName, b.reg); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}

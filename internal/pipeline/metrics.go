package pipeline

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"firestige.xyz/netsniff/internal/metrics"
)

// Metrics contains per-run counters. Each counter is mirrored to the
// process-wide netsniff_frames_total series.
type Metrics struct {
	RunID string

	Received    atomic.Uint64
	Decoded     atomic.Uint64
	Truncated   atomic.Uint64
	NotIPv4     atomic.Uint64
	NoTransport atomic.Uint64
	Filtered    atomic.Uint64
	Reported    atomic.Uint64

	truncatedTotal   prometheus.Counter
	notIPv4Total     prometheus.Counter
	noTransportTotal prometheus.Counter
	filteredTotal    prometheus.Counter
	reportedTotal    prometheus.Counter
}

// NewMetrics creates a new metrics instance.
func NewMetrics(runID string) *Metrics {
	return &Metrics{
		RunID:            runID,
		truncatedTotal:   metrics.FramesTotal.WithLabelValues(metrics.ResultTruncated),
		notIPv4Total:     metrics.FramesTotal.WithLabelValues(metrics.ResultNotIPv4),
		noTransportTotal: metrics.FramesTotal.WithLabelValues(metrics.ResultNoTransport),
		filteredTotal:    metrics.FramesTotal.WithLabelValues(metrics.ResultFiltered),
		reportedTotal:    metrics.FramesTotal.WithLabelValues(metrics.ResultReported),
	}
}

func (m *Metrics) received(n int) {
	m.Received.Add(1)
	metrics.FrameBytesTotal.Add(float64(n))
}

func (m *Metrics) truncated() {
	m.Truncated.Add(1)
	m.truncatedTotal.Inc()
}

func (m *Metrics) notIPv4() {
	m.NotIPv4.Add(1)
	m.notIPv4Total.Inc()
}

func (m *Metrics) noTransport() {
	m.NoTransport.Add(1)
	m.noTransportTotal.Inc()
}

func (m *Metrics) filtered() {
	m.Filtered.Add(1)
	m.filteredTotal.Inc()
}

func (m *Metrics) reported() {
	m.Reported.Add(1)
	m.reportedTotal.Inc()
}

// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame results, used as the "result" label of FramesTotal.
const (
	ResultReported    = "reported"
	ResultFiltered    = "filtered"
	ResultTruncated   = "truncated"
	ResultNotIPv4     = "not_ipv4"
	ResultNoTransport = "no_transport"
)

var (
	// FramesTotal counts frames read from the source by outcome.
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsniff_frames_total",
			Help: "Total number of frames processed, by result",
		},
		[]string{"result"},
	)

	// FrameBytesTotal counts captured bytes read from the source.
	FrameBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netsniff_frame_bytes_total",
			Help: "Total number of captured bytes read from the source",
		},
	)

	// FrameLatencySeconds measures per-frame decode-classify-format time.
	FrameLatencySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netsniff_frame_latency_seconds",
			Help:    "Per-frame processing latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 20), // 1µs to ~1s
		},
	)
)

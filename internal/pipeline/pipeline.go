// Package pipeline runs the capture loop: read a frame, decode it, classify
// it and hand accepted frames to the sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/core/decoder"
	"firestige.xyz/netsniff/internal/filter"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/metrics"
	"firestige.xyz/netsniff/internal/source"
)

// Sink receives frames accepted by the filter. The frame and its views are
// only valid during the call.
type Sink interface {
	Send(frame *core.ParsedFrame) error
}

// Pipeline represents a single-threaded frame processing chain.
type Pipeline struct {
	runID   string
	source  source.Source
	decoder decoder.Decoder
	sink    Sink
	mode    filter.Mode
	metrics *Metrics
}

// Config contains pipeline configuration.
type Config struct {
	RunID   string // generated when empty
	Source  source.Source
	Decoder decoder.Decoder // defaults to decoder.NewStandardDecoder()
	Sink    Sink
	Mode    filter.Mode
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Decoder == nil {
		cfg.Decoder = decoder.NewStandardDecoder()
	}
	return &Pipeline{
		runID:   cfg.RunID,
		source:  cfg.Source,
		decoder: cfg.Decoder,
		sink:    cfg.Sink,
		mode:    cfg.Mode,
		metrics: NewMetrics(cfg.RunID),
	}
}

// RunID returns the identifier carried in this run's log fields.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run processes frames until ctx is done or the source is exhausted, both of
// which return nil. A source failure or a sink write failure ends the run
// with an error. Malformed and uninteresting frames are counted and skipped.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.source == nil || p.sink == nil {
		return fmt.Errorf("%w: pipeline needs a source and a sink", core.ErrConfigInvalid)
	}

	logger := log.GetLogger().WithFields(map[string]interface{}{
		"run_id": p.runID,
		"mode":   p.mode.String(),
	})
	logger.Info("pipeline starting")
	defer func() {
		s := p.Stats()
		logger.WithFields(map[string]interface{}{
			"received":     s.Received,
			"decoded":      s.Decoded,
			"truncated":    s.Truncated,
			"not_ipv4":     s.NotIPv4,
			"no_transport": s.NoTransport,
			"filtered":     s.Filtered,
			"reported":     s.Reported,
		}).Info("pipeline stopped")
	}()

	for {
		raw, err := p.source.ReadFrame(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info("source exhausted")
				return nil
			case ctx.Err() != nil:
				return nil
			default:
				return fmt.Errorf("read frame: %w", err)
			}
		}

		if err := p.processFrame(raw, logger); err != nil {
			return err
		}
	}
}

// processFrame runs one frame through decode, classify and send.
func (p *Pipeline) processFrame(raw core.RawPacket, logger log.Logger) error {
	start := time.Now()
	defer func() { metrics.FrameLatencySeconds.Observe(time.Since(start).Seconds()) }()

	p.metrics.received(len(raw.Data))

	frame, err := p.decoder.Decode(raw)
	switch {
	case errors.Is(err, core.ErrNotIPv4):
		p.metrics.notIPv4()
		return nil
	case err != nil:
		p.metrics.truncated()
		if logger.IsTraceEnabled() {
			logger.WithError(err).WithField("len", len(raw.Data)).Trace("frame dropped")
		}
		return nil
	}
	p.metrics.Decoded.Add(1)

	if !frame.HasTransport() {
		p.metrics.noTransport()
		return nil
	}
	if !filter.ShouldReport(&frame, p.mode) {
		p.metrics.filtered()
		return nil
	}

	if err := p.sink.Send(&frame); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	p.metrics.reported()
	return nil
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Received:    p.metrics.Received.Load(),
		Decoded:     p.metrics.Decoded.Load(),
		Truncated:   p.metrics.Truncated.Load(),
		NotIPv4:     p.metrics.NotIPv4.Load(),
		NoTransport: p.metrics.NoTransport.Load(),
		Filtered:    p.metrics.Filtered.Load(),
		Reported:    p.metrics.Reported.Load(),
	}
}

// Stats represents pipeline statistics.
type Stats struct {
	Received    uint64
	Decoded     uint64
	Truncated   uint64
	NotIPv4     uint64
	NoTransport uint64
	Filtered    uint64
	Reported    uint64
}

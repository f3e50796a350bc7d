package pipeline

import (
	"firestige.xyz/netsniff/internal/core/decoder"
	"firestige.xyz/netsniff/internal/filter"
	"firestige.xyz/netsniff/internal/source"
)

// Builder provides a fluent interface for building pipelines.
type Builder struct {
	config Config
}

// NewBuilder creates a new pipeline builder reporting in ModeAll.
func NewBuilder() *Builder {
	return &Builder{
		config: Config{
			Mode: filter.ModeAll,
		},
	}
}

// WithRunID sets the run ID.
func (b *Builder) WithRunID(runID string) *Builder {
	b.config.RunID = runID
	return b
}

// WithSource sets the frame source.
func (b *Builder) WithSource(s source.Source) *Builder {
	b.config.Source = s
	return b
}

// WithDecoder sets the frame decoder.
func (b *Builder) WithDecoder(d decoder.Decoder) *Builder {
	b.config.Decoder = d
	return b
}

// WithSink sets the sink for accepted frames.
func (b *Builder) WithSink(s Sink) *Builder {
	b.config.Sink = s
	return b
}

// WithMode sets the filter mode.
func (b *Builder) WithMode(m filter.Mode) *Builder {
	b.config.Mode = m
	return b
}

// Build creates the pipeline.
func (b *Builder) Build() *Pipeline {
	return New(b.config)
}

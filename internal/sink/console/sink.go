package console

import (
	"fmt"
	"io"
	"strings"

	"firestige.xyz/netsniff/internal/core"
)

// Sink writes formatted frames to an append-only text stream.
type Sink struct {
	out       io.Writer
	formatter *Formatter
}

// NewSink creates a sink writing to out.
func NewSink(out io.Writer, formatter *Formatter) *Sink {
	if formatter == nil {
		formatter = NewFormatter(Options{})
	}
	return &Sink{out: out, formatter: formatter}
}

// Send renders the frame and writes it in one call.
func (s *Sink) Send(frame *core.ParsedFrame) error {
	if frame == nil {
		return fmt.Errorf("nil frame")
	}
	lines := s.formatter.Lines(frame)
	if _, err := io.WriteString(s.out, strings.Join(lines, "\n")+"\n"); err != nil {
		return fmt.Errorf("console write failed: %w", err)
	}
	return nil
}

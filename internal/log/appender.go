package log

import (
	"errors"
	"io"
)

// MultiWriter copies each log line to every appender. A failing appender
// does not stop the others; all failures are joined into the returned error.
type MultiWriter struct {
	writers []io.Writer
}

// NewMultiWriter creates an empty MultiWriter.
func NewMultiWriter() *MultiWriter {
	return &MultiWriter{}
}

// Add appends an appender and returns m for chaining.
func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

func (m *MultiWriter) Write(p []byte) (int, error) {
	var errs []error
	for _, w := range m.writers {
		if _, err := w.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return len(p), errors.Join(errs...)
}

// Package log provides the process logger: a logrus entry behind the Logger
// interface, writing to stderr and optionally to a rotating file.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"firestige.xyz/netsniff/internal/config"
)

// Logger is the logging surface used across netsniff.
type Logger interface {
	Trace(args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

var (
	mu     sync.RWMutex
	logger Logger = newDiscardLogger()
)

// GetLogger returns the process logger. Before Init it discards everything.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the process logger.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Init builds the process logger from configuration. stderr is always an
// output so stdout stays reserved for frame output.
func Init(cfg config.LogConfig) error {
	l, err := New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// New builds a logger writing to console plus the configured file output.
func New(cfg config.LogConfig, console io.Writer) (Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return nil, err
	}

	out := NewMultiWriter().Add(console)
	if cfg.Outputs.File.Enabled {
		if cfg.Outputs.File.Path == "" {
			return nil, fmt.Errorf("file output requires 'path' field")
		}
		out.AddFileAppender(cfg.Outputs.File)
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(formatter)
	l.SetOutput(out)
	return &logrusAdapter{entry: logrus.NewEntry(l)}, nil
}

// parseLevel converts string level to logrus.Level.
func parseLevel(levelStr string) (logrus.Level, error) {
	switch strings.ToLower(levelStr) {
	case "trace":
		return logrus.TraceLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown level: %s", levelStr)
	}
}

func newFormatter(cfg config.LogConfig) (logrus.Formatter, error) {
	switch strings.ToLower(cfg.Format) {
	case "json":
		return &logrus.JSONFormatter{TimestampFormat: cfg.TimeFormat}, nil
	case "text":
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: cfg.TimeFormat, DisableColors: true}, nil
	case "pattern":
		return &formatter{pattern: cfg.Pattern, time: cfg.TimeFormat}, nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s (must be json, text or pattern)", cfg.Format)
	}
}

func newDiscardLogger() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusAdapter{entry: logrus.NewEntry(l)}
}

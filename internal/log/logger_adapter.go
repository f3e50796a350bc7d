package log

import "github.com/sirupsen/logrus"

// logrusAdapter carries the fields accumulated by With* calls in its entry.
type logrusAdapter struct {
	entry *logrus.Entry
}

func (l *logrusAdapter) Trace(args ...interface{}) { l.entry.Trace(args...) }
func (l *logrusAdapter) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *logrusAdapter) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *logrusAdapter) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *logrusAdapter) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *logrusAdapter) WithField(field string, value interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithField(field, value)}
}

func (l *logrusAdapter) WithFields(fields map[string]interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fields)}
}

func (l *logrusAdapter) WithError(err error) Logger {
	return &logrusAdapter{entry: l.entry.WithError(err)}
}

func (l *logrusAdapter) IsTraceEnabled() bool { return l.enabled(logrus.TraceLevel) }
func (l *logrusAdapter) IsDebugEnabled() bool { return l.enabled(logrus.DebugLevel) }
func (l *logrusAdapter) IsInfoEnabled() bool  { return l.enabled(logrus.InfoLevel) }

func (l *logrusAdapter) enabled(level logrus.Level) bool {
	return l.entry.Logger.IsLevelEnabled(level)
}

package badssl

import (
	"fmt"

	"github.com/aristanetworks/glog"
)

// Log verbosity levels
const (
	LogLevelErr = iota
	LogLevelInfo
	LogLevelDebug
)

// Logger is the interface used by connectors and suites for diagnostics.
type Logger interface {
	Logf(level int, format string, args ...any)
	Wrap(prefix string) Logger
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Logf(level int, format string, args ...any) {}
func (l NoopLogger) Wrap(prefix string) Logger                { return l }

// DefaultLogger forwards messages up to Level to LoggerFunc, which defaults to [glog.Infof].
type DefaultLogger struct {
	Prefix     string
	Level      int
	LoggerFunc func(format string, args ...any)
}

// NewGlogLogger returns a [DefaultLogger] writing to glog. Errors go to glog's error log.
func NewGlogLogger(prefix string, level int) *DefaultLogger {
	return &DefaultLogger{Prefix: prefix, Level: level}
}

// Logf logs the message if level is at or below l.Level.
func (l *DefaultLogger) Logf(level int, format string, args ...any) {
	if level > l.Level {
		return
	}
	var levelStr string
	switch level {
	case LogLevelErr:
		levelStr = "ERROR:"
	case LogLevelInfo:
		levelStr = "INFO:"
	default:
		levelStr = "DEBUG:"
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case l.LoggerFunc != nil:
		l.LoggerFunc("%s %s %s", levelStr, l.Prefix, msg)
	case level == LogLevelErr:
		glog.Errorf("%s %s %s", levelStr, l.Prefix, msg)
	default:
		glog.Infof("%s %s %s", levelStr, l.Prefix, msg)
	}
}

// Wrap returns a copy of l with prefix appended to its prefix.
func (l *DefaultLogger) Wrap(prefix string) Logger {
	n := *l
	n.Prefix = l.Prefix + prefix
	return &n
}

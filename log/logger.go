// Package log provides the logging interface used across nodecanvas and its
// kataras/golog backend.
package log

import (
	"io"

	"github.com/kataras/golog"
)

// LogLevel represents logging severity
type LogLevel int

const (
	// LogLevelDebug for detailed debugging information
	LogLevelDebug LogLevel = iota
	// LogLevelInfo for general informational messages
	LogLevelInfo
	// LogLevelWarn for warning messages
	LogLevelWarn
	// LogLevelError for error messages
	LogLevelError
	// LogLevelNone disables all logging
	LogLevelNone
)

// Logger is the logging surface the editor packages depend on
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// ParseLevel maps a config level name to a LogLevel. Unknown names map to info.
func ParseLevel(name string) LogLevel {
	switch name {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "none", "disable", "off":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}

// New creates a golog-backed logger writing to out with the given prefix
func New(out io.Writer, prefix string, level LogLevel) *GologLogger {
	g := golog.New()
	g.SetOutput(out)
	g.SetPrefix(prefix)
	l := NewGologLogger(g)
	l.SetLevel(level)
	return l
}

// Nop returns a logger that discards everything
func Nop() Logger {
	l := NewGologLogger(golog.New())
	l.SetLevel(LogLevelNone)
	return l
}

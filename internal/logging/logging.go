// Package logging is a thin leveled wrapper around the standard
// library's log package.
package logging

import (
	"io"
	"log"
	"os"
)

// Level is a logging threshold, ordered low to high severity.
type Level int

// Recognized levels.
const (
	Debug Level = iota
	Info
	Warn
	Critical
)

// ParseLevel maps a CLI-supplied string to a Level, defaulting to Info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "critical", "error":
		return Critical
	default:
		return Info
	}
}

// Logger gates log.Logger output by level.
type Logger struct {
	level    Level
	out      *log.Logger
	warnOnce map[string]bool
}

// New returns a Logger writing to w at the given threshold.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", 0), warnOnce: make(map[string]bool)}
}

// Stderr returns a Logger writing to os.Stderr.
func Stderr(level Level) *Logger {
	return New(os.Stderr, level)
}

func (l *Logger) logf(level Level, prefix, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf(prefix+format, args...)
}

// Debugf logs at Debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(Debug, "DEBUG: ", format, args...)
}

// Infof logs at Info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.logf(Info, "INFO: ", format, args...) }

// Warnf logs at Warn level. Non-fatal conditions use this.
func (l *Logger) Warnf(format string, args ...interface{}) { l.logf(Warn, "WARN: ", format, args...) }

// WarnOnce logs a Warn-level message only the first time it is called
// with a given key, for conditions reported on first occurrence only.
func (l *Logger) WarnOnce(key, format string, args ...interface{}) {
	if l.warnOnce[key] {
		return
	}
	l.warnOnce[key] = true
	l.Warnf(format, args...)
}

// Criticalf logs at Critical level. Fatal conditions are logged here
// before the caller aborts via a typed error, not via log.Fatal; only
// cmd/ decides to exit the process.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.logf(Critical, "CRITICAL: ", format, args...)
}

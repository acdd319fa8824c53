// Package logging provides the leveled logger used for operational
// messages across the simulator. It is deliberately separate from the
// trace package: logging is for developers running the simulator, trace
// is the contractual per-operation transcript spec.md requires.
//
// Unlike a plain message log, callers in bus and core attach
// structured fields (core id, address, bus op) to the events they log,
// so an operational log line carries the same attributes a trace line
// does and can be grepped or parsed the same way.
package logging

import (
	"fmt"
	logpkg "log"
	"os"
	"sort"
	"strings"
)

// Level is the logger's severity threshold.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging on top of the standard library's log.Logger.
type Logger struct {
	level  Level
	logger *logpkg.Logger
}

// New creates a logger at the given level with the given prefix.
func New(level Level, prefix string) *Logger {
	return &Logger{
		level:  level,
		logger: logpkg.New(os.Stdout, prefix, logpkg.LstdFlags|logpkg.Lmicroseconds),
	}
}

// SetLevel adjusts the logger's threshold.
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.level = level
}

func (l *Logger) logf(target Level, format string, args ...any) {
	if l == nil || target > l.level {
		return
	}
	l.logger.Output(3, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// Fields is a set of structured key/value pairs attached to a log line —
// typically CoreID/Address/BusOp, the same attributes a trace.Event
// carries. Rendered as sorted "key=value" pairs so two log lines for the
// same kind of event diff cleanly.
type Fields map[string]any

func (l *Logger) logw(target Level, msg string, fields Fields) {
	if l == nil || target > l.level {
		return
	}
	l.logger.Output(3, msg+renderFields(fields))
}

func renderFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

func (l *Logger) Debugw(msg string, fields Fields) { l.logw(LevelDebug, msg, fields) }
func (l *Logger) Infow(msg string, fields Fields)  { l.logw(LevelInfo, msg, fields) }
func (l *Logger) Warnw(msg string, fields Fields)  { l.logw(LevelWarn, msg, fields) }
func (l *Logger) Errorw(msg string, fields Fields) { l.logw(LevelError, msg, fields) }

var defaultLogger = New(LevelInfo, "[moesi] ")

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault replaces the package-level logger (primarily for tests).
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger = l
}

// Package logging provides the small leveled logger the engine and front
// ends share. Engine-level problems surface as warnings: per-file failures
// and ambiguous paths must reach the user without aborting a run.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level filters log output.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel reads a level name from config or flags. Unknown names fall
// back to warn, the product default.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Logger writes timestamped, level-tagged lines to one writer. Safe for
// concurrent use.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level}
}

// SetLevel adjusts filtering after construction (config load happens after
// the default logger already exists).
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	fmt.Fprintf(l.out, "%s %-5s %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

var defaultLogger = New(os.Stderr, LevelWarn)

// Default returns the process-wide logger. Front ends adjust its level from
// config; libraries take a *Logger and fall back to this one.
func Default() *Logger {
	return defaultLogger
}

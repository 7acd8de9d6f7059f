package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LegacyLogger writes "[LEVEL] msg args" lines with fmt, without slog
type LegacyLogger struct {
	level Level
	w     io.Writer
	mu    sync.RWMutex
}

// NewLegacyLogger creates a legacy logger writing to stderr
func NewLegacyLogger() *LegacyLogger {
	return &LegacyLogger{
		level: LevelWarn,
		w:     os.Stderr,
	}
}

// SetLevel sets the minimum level written
func (l *LegacyLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetWriter redirects output
func (l *LegacyLogger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = w
}

func (l *LegacyLogger) log(level Level, tag, msg string, args []any) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}
	if len(args) == 0 {
		fmt.Fprintf(l.w, "[%s] %s\n", tag, msg)
		return
	}
	fmt.Fprintf(l.w, "[%s] %s %v\n", tag, msg, args)
}

func (l *LegacyLogger) Debug(msg string, args ...any) { l.log(LevelDebug, "DEBUG", msg, args) }
func (l *LegacyLogger) Info(msg string, args ...any)  { l.log(LevelInfo, "INFO", msg, args) }
func (l *LegacyLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, "WARN", msg, args) }
func (l *LegacyLogger) Error(msg string, args ...any) { l.log(LevelError, "ERROR", msg, args) }

// With returns the logger itself; legacy output carries no context
func (l *LegacyLogger) With(args ...any) Logger { return l }

func (l *LegacyLogger) Sync() error     { return nil }
func (l *LegacyLogger) Shutdown() error { return nil }

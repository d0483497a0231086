package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	internal *slog.Logger
	level    *slog.LevelVar
}

func New(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

func NewWithWriter(level string, w io.Writer) *Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(level))

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{internal: slog.New(handler), level: lvl}
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{internal: l.internal.With(args...), level: l.level}
}

func Discard() *Logger {
	return NewWithWriter("error", io.Discard)
}

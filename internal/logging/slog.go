package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts a log/slog logger to the Logger interface. The marksync
// CLI routes it to a rotating file handler so the terminal stays free for
// the REPL; tests point it at a discard handler.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps an already-configured slog.Logger. Handler choice
// (text, JSON, level, output) stays with the caller.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

// With returns a child logger whose entries always carry the given
// key-value pairs.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}

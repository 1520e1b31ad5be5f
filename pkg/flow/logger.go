package flow

import (
	"context"
	"log/slog"
)

// slogLogger adapts a *slog.Logger to Logger
type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger returns a Logger writing to l, or to slog.Default when l is nil
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{logger: l}
}

func (s *slogLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

func (s *slogLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

func (s *slogLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Log(context.Background(), slog.LevelWarn, msg, keysAndValues...)
}

func (s *slogLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

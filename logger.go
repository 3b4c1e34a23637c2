package fluentquery

import (
	"context"
	"log/slog"
	"time"
)

// Logger receives every compiled query when debug mode is on: the SQL, its
// positional bindings, how long compilation took and the error, if any.
type Logger interface {
	Log(query string, args []any, duration time.Duration, err error)
}

// NopLogger discards everything. It is the default.
type NopLogger struct{}

// Log implements Logger.
func (NopLogger) Log(string, []any, time.Duration, error) {}

// SlogLogger reports compiled queries through a *slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogLogger returns a Logger writing to l at debug level. A nil l uses
// slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l, level: slog.LevelDebug}
}

// WithLevel returns a copy that logs successful compiles at level.
func (s *SlogLogger) WithLevel(level slog.Level) *SlogLogger {
	c := *s
	c.level = level
	return &c
}

// Log implements Logger. Failed compiles are always logged at error level.
func (s *SlogLogger) Log(query string, args []any, duration time.Duration, err error) {
	if err != nil {
		s.logger.Error("query compile failed", "error", err, "duration", duration)
		return
	}
	s.logger.Log(context.Background(), s.level, "query compiled",
		"query", query,
		"args", args,
		"duration", duration,
	)
}

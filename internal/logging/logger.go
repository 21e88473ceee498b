// Package logging provides the structured slog.Logger used across the
// router CLI and the optional HTTP front end.
//
// Adapted from the teacher's internal/common/logging package: the same
// Logger wrapper, LoggerConfig shape, and With* helpers, trimmed of the
// HTTP-request/response-specific helpers that internal/api reimplements
// closer to the gin middleware chain.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Level names a Config may carry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config controls how New builds its handler.
type Config struct {
	Level     Level
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns the logger configuration used when the CLI is
// run without --debug: info level, line-oriented text, no source.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// DebugConfig returns the configuration used under --debug: debug
// level, structured JSON, with source locations (spec.md §6).
func DebugConfig() *Config {
	return &Config{
		Level:     LevelDebug,
		Format:    "json",
		Output:    os.Stderr,
		AddSource: true,
	}
}

// Logger wraps slog.Logger so callers can attach structured fields
// without importing log/slog directly.
type Logger struct {
	*slog.Logger
	config *Config
}

// New builds a Logger from cfg, falling back to DefaultConfig when nil.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var level slog.Level
	switch cfg.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &Logger{Logger: slog.New(handler), config: cfg}
}

// WithContext attaches a request id (stored by ContextWithRequestID)
// to every subsequent log line, when present on ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok && reqID != "" {
		return l.WithField("request_id", reqID)
	}
	return l
}

// WithField returns a derived logger carrying one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Logger: l.Logger.With(key, value), config: l.config}
}

// WithFields returns a derived logger carrying several extra fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

type requestIDKey struct{}

// ContextWithRequestID stores a request id for later retrieval by
// WithContext. internal/api's logging middleware does not call it.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

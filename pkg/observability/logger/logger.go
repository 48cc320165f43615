package logger

import "context"

// Logger is the structured logging contract used across the service.
// Methods take a message followed by alternating key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every subsequent entry.
	With(args ...any) Logger

	// WithContext returns a child logger enriched with the request ID
	// from ctx, when one is present.
	WithContext(ctx context.Context) Logger
}

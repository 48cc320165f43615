package logger

import "context"

// NopLogger discards all entries. Useful for tests.
type NopLogger struct{}

// NewNop returns a logger that drops everything.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(msg string, args ...any)          {}
func (n *NopLogger) Info(msg string, args ...any)           {}
func (n *NopLogger) Warn(msg string, args ...any)           {}
func (n *NopLogger) Error(msg string, args ...any)          {}
func (n *NopLogger) With(args ...any) Logger                { return n }
func (n *NopLogger) WithContext(ctx context.Context) Logger { return n }

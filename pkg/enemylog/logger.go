// Package enemylog provides the structured logging surface the proxy-pool
// core uses to report per-proxy validation outcomes to its caller.
package enemylog

import "go.uber.org/zap"

// Logger is the small severity set the external IRC caller expects:
// info/success/error lines plus debug for wire-level tracing.
type Logger struct {
	s *zap.SugaredLogger
}

// New wraps a zap.SugaredLogger.
func New(s *zap.SugaredLogger) *Logger {
	return &Logger{s: s}
}

// NewProduction builds a Logger backed by zap's production JSON config.
func NewProduction() (*Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z.Sugar()), nil
}

// Nop returns a Logger that discards everything, used as the zero-value
// default so callers never need a nil check.
func Nop() *Logger {
	return New(zap.NewNop().Sugar())
}

// Info logs an informational line with structured key/value pairs.
func (l *Logger) Info(msg string, kv ...any) {
	l.s.Infow(msg, kv...)
}

// Success logs an informational line tagged status="ok" so downstream log
// processors can filter successes without a distinct zap level.
func (l *Logger) Success(msg string, kv ...any) {
	l.s.Infow(msg, append(append([]any{}, kv...), "status", "ok")...)
}

// Error logs an error line.
func (l *Logger) Error(msg string, kv ...any) {
	l.s.Errorw(msg, kv...)
}

// Debug logs a wire-level trace line.
func (l *Logger) Debug(msg string, kv ...any) {
	l.s.Debugw(msg, kv...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.s.Sync()
}

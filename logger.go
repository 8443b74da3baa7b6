package locator

import "go.uber.org/zap"

// Logger defines the interface for container logging.
// It uses key/value pairs so output stays structured regardless of the
// backend:
//
//	logger.Info("Service registered", "key", "Audio", "replaced", false)
//
// Implementations exist for zap (NewZapLogger) and as a no-op default.
type Logger interface {
	// Info logs normal container events such as registration and discovery.
	Info(msg string, args ...any)

	// Error logs failures that do not abort the operation, for example an
	// observer returning an error.
	Error(msg string, args ...any)

	// Warn logs unusual but recoverable conditions such as expired references.
	Warn(msg string, args ...any)

	// Debug logs per-lookup diagnostics. Typically disabled in production.
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

// ZapLogger adapts a zap logger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil logger yields zap's no-op logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

func (z *ZapLogger) Info(msg string, args ...any)  { z.sugar.Infow(msg, args...) }
func (z *ZapLogger) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }
func (z *ZapLogger) Warn(msg string, args ...any)  { z.sugar.Warnw(msg, args...) }
func (z *ZapLogger) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }

// Sync flushes buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

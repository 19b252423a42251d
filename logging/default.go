package logging

import (
	"context"
	"maps"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger is the library logger backed by zap.
// Debug/Info/Warn go through the same core; Fatal exits the process after logging.
// Loggers derived with WithFields share the parent's level.
type DefaultLogger struct {
	base   *zap.Logger
	level  zap.AtomicLevel
	fields Fields
}

// NewDefaultLogger creates a console-encoded zap logger at info level
func NewDefaultLogger() *DefaultLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return newFromConfig(cfg)
}

// NewJSONLogger creates a JSON-encoded zap logger, suitable for servers
func NewJSONLogger() *DefaultLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return newFromConfig(cfg)
}

func newFromConfig(cfg zap.Config) *DefaultLogger {
	// skip the DefaultLogger.log frame and the Debug/Info/... frame
	base, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		base = zap.NewNop()
	}
	return &DefaultLogger{
		base:   base,
		level:  cfg.Level,
		fields: make(Fields),
	}
}

// NewZapLogger wraps an existing zap logger. Level filtering is left to the
// logger's own core until SetLevel is called.
func NewZapLogger(base *zap.Logger) *DefaultLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &DefaultLogger{
		base:   base,
		level:  zap.NewAtomicLevelAt(zapcore.DebugLevel),
		fields: make(Fields),
	}
}

// Zap exposes the underlying zap logger, e.g. for Sync on shutdown
func (d *DefaultLogger) Zap() *zap.Logger {
	return d.base
}

func (d *DefaultLogger) zapFields(err error, fields ...Fields) []zap.Field {
	all := make(Fields, len(d.fields))
	maps.Copy(all, d.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}

	out := make([]zap.Field, 0, len(all)+1)
	if err != nil {
		out = append(out, zap.Error(err))
	}
	for _, k := range slices.Sorted(maps.Keys(all)) {
		out = append(out, zap.Any(k, all[k]))
	}
	return out
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	zl := level.zapLevel()
	if !d.level.Enabled(zl) {
		return
	}

	zf := d.zapFields(err, fields...)
	switch level {
	case DebugLevel:
		d.base.Debug(msg, zf...)
	case InfoLevel:
		d.base.Info(msg, zf...)
	case WarnLevel:
		d.base.Warn(msg, zf...)
	case ErrorLevel:
		d.base.Error(msg, zf...)
	case FatalLevel:
		d.base.Fatal(msg, zf...)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(d.fields)+len(fields))
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		base:   d.base,
		level:  d.level,
		fields: newFields,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level.SetLevel(level.zapLevel())
}

// NoOpLogger discards everything; used when logging is disabled and in tests
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}

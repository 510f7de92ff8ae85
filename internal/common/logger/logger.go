// internal/common/logger/logger.go
package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the field-map logging surface the service's packages take.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

// New builds the process zap logger from the logging config section. An
// unknown level means info, an empty output stdout.
func New(levelStr, format string, output ...string) *zap.Logger {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if len(output) > 0 && output[0] != "" {
		cfg.OutputPaths = []string{output[0]}
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// NewZapAdapter exposes l as a Logger.
func NewZapAdapter(l *zap.Logger) Logger {
	return fieldLogger{l}
}

func NewTestLogger(t testing.TB) Logger {
	return fieldLogger{zaptest.NewLogger(t)}
}

func NewNoOpLogger() Logger {
	return fieldLogger{zap.NewNop()}
}

type fieldLogger struct {
	z *zap.Logger
}

func (f fieldLogger) Debug(msg string, fields map[string]interface{}) {
	f.log(zapcore.DebugLevel, msg, fields)
}

func (f fieldLogger) Info(msg string, fields map[string]interface{}) {
	f.log(zapcore.InfoLevel, msg, fields)
}

func (f fieldLogger) Warn(msg string, fields map[string]interface{}) {
	f.log(zapcore.WarnLevel, msg, fields)
}

func (f fieldLogger) Error(msg string, fields map[string]interface{}) {
	f.log(zapcore.ErrorLevel, msg, fields)
}

func (f fieldLogger) WithFields(fields map[string]interface{}) Logger {
	return fieldLogger{f.z.With(zapFields(fields)...)}
}

func (f fieldLogger) log(level zapcore.Level, msg string, fields map[string]interface{}) {
	if ce := f.z.Check(level, msg); ce != nil {
		ce.Write(zapFields(fields)...)
	}
}

// zapFields keeps error values as errors so encoders render their message.
func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

package logger

import (
	"go.uber.org/zap"

	"github.com/dwarvesf/arkswap/internal/types/environments"
)

type Logger struct {
	wrappedLogger *zap.Logger
	baseFields    map[string]string
}

func New(env environments.Environment) *Logger {
	var cfg zap.Config

	switch env {
	case environments.Development:
		cfg = newDevelopmentLoggerConfig()
	case environments.Test:
		cfg = newTestLoggerConfig()
	case environments.CLI:
		cfg = newCLILoggerConfig()
	case environments.Staging:
		cfg = newStagingLoggerConfig()
	case environments.Production:
		cfg = newProductionLoggerConfig()
	default:
		cfg = newProductionLoggerConfig()
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{
		wrappedLogger: zapLogger,
	}
}

// With returns a child logger that attaches fields to every entry.
// Fields passed at call time win over the ones set here.
func (l *Logger) With(fields map[string]string) *Logger {
	merged := make(map[string]string, len(l.baseFields)+len(fields))
	for k, v := range l.baseFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		wrappedLogger: l.wrappedLogger,
		baseFields:    merged,
	}
}

func (l *Logger) Debug(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Debug(msg, l.fields(inputFields)...)
}

func (l *Logger) Info(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Info(msg, l.fields(inputFields)...)
}

func (l *Logger) Warn(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Warn(msg, l.fields(inputFields)...)
}

func (l *Logger) Error(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Error(msg, l.fields(inputFields)...)
}

func (l *Logger) Fatal(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Fatal(msg, l.fields(inputFields)...)
}

// Sync flushes buffered entries. Errors from syncing stdout are ignored.
func (l *Logger) Sync() {
	_ = l.wrappedLogger.Sync()
}

func (l *Logger) fields(inputFields []map[string]string) []zap.Field {
	if len(l.baseFields) == 0 {
		if len(inputFields) == 0 {
			return []zap.Field{}
		}
		return transformStrMapToFields(inputFields[0])
	}

	merged := make(map[string]string, len(l.baseFields))
	for k, v := range l.baseFields {
		merged[k] = v
	}
	if len(inputFields) > 0 {
		for k, v := range inputFields[0] {
			merged[k] = v
		}
	}

	return transformStrMapToFields(merged)
}

func transformStrMapToFields(strMap map[string]string) []zap.Field {
	fields := []zap.Field{}
	for k, v := range strMap {
		fields = append(fields, zap.String(k, v))
	}

	return fields
}

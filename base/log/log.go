package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields to be added to a logger
type Fields map[string]interface{}

// Logger contains logger and fields
type Logger struct {
	logger *zap.SugaredLogger
	fields []interface{}
}

var (
	level            = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	zapSugaredLogger *zap.SugaredLogger
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	zapLogger, _ := cfg.Build(zap.AddCallerSkip(1))
	zapSugaredLogger = zapLogger.Sugar()
}

// SetDebug switches the global level between debug and info
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Sync flushes buffered entries, call it before exiting
func Sync() {
	_ = zapSugaredLogger.Sync()
}

// Log returns an empty field logger
func Log() Logger {
	return Logger{
		logger: zapSugaredLogger,
		fields: []interface{}{},
	}
}

// WithField add a key/value pair to its fields
func (l Logger) WithField(key string, value interface{}) Logger {
	fields := make([]interface{}, len(l.fields), len(l.fields)+2)
	copy(fields, l.fields)
	l.fields = append(fields, key, value)
	return l
}

// WithFields add multiple key/value pairs to its fields
func (l Logger) WithFields(kvs Fields) Logger {
	for k, v := range kvs {
		l = l.WithField(k, v)
	}
	return l
}

// Debug log
func (l Logger) Debug(args ...interface{}) {
	l.logger.With(l.fields...).Debug(args...)
}

// Info log
func (l Logger) Info(args ...interface{}) {
	l.logger.With(l.fields...).Info(args...)
}

// Warn log
func (l Logger) Warn(args ...interface{}) {
	l.logger.With(l.fields...).Warn(args...)
}

// Error log
func (l Logger) Error(args ...interface{}) {
	l.logger.With(l.fields...).Error(args...)
}

// Panic log
func (l Logger) Panic(args ...interface{}) {
	l.logger.With(l.fields...).Panic(args...)
}

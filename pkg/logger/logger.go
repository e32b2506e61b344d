// Package logger provides structured logging for the application.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a map of field names to values attached to log messages.
type Fields map[string]interface{}

// Logger defines the interface for all logging operations.
type Logger interface {
	// Debug logs a message at debug level. Only shown when verbosity >= 1.
	Debug(msg string)

	// Info logs a message at info level. Always shown.
	Info(msg string)

	// Warn logs a message at warn level. Always shown.
	Warn(msg string)

	// Error logs a message at error level. Always shown.
	Error(msg string)

	// Trace logs a message at trace level. Only shown when verbosity >= 2.
	Trace(msg string)

	// WithFields returns a new Logger with the given fields added to its
	// context for all subsequent messages.
	WithFields(fields Fields) Logger
}

// Config holds the configuration for creating a logger.
type Config struct {
	// Verbosity determines the logging level:
	// 0: Info, Warn, Error (default)
	// 1: Debug + Level 0
	// 2: Trace + Level 1
	Verbosity int

	// Output specifies where logs are written. Defaults to os.Stderr.
	Output io.Writer
}

type logger struct {
	zap       *zap.Logger
	verbosity int
}

// New creates a Logger with the given configuration.
//
// Example:
//
//	log := logger.New(logger.Config{Verbosity: 1})
//	log.WithFields(logger.Fields{"path": path}).Info("Formatting file")
func New(config Config) Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(config.Output),
		levelFor(config.Verbosity),
	)

	return &logger{
		zap:       zap.New(core),
		verbosity: config.Verbosity,
	}
}

// Nop returns a Logger that discards everything. Intended for tests.
func Nop() Logger {
	return &logger{zap: zap.NewNop()}
}

func levelFor(verbosity int) zapcore.LevelEnabler {
	if verbosity >= 1 {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func (l *logger) Debug(msg string) {
	l.zap.Debug(msg)
}

func (l *logger) Info(msg string) {
	l.zap.Info(msg)
}

func (l *logger) Warn(msg string) {
	l.zap.Warn(msg)
}

func (l *logger) Error(msg string) {
	l.zap.Error(msg)
}

func (l *logger) Trace(msg string) {
	if l.verbosity >= 2 {
		l.zap.Debug("TRACE: " + msg)
	}
}

func (l *logger) WithFields(fields Fields) Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return &logger{
		zap:       l.zap.With(zapFields...),
		verbosity: l.verbosity,
	}
}

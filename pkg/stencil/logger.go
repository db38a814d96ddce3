package stencil

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]interface{}

// Logger is the structured logger used by the engine. It wraps a zap logger
// and an adjustable level so the global configuration can change verbosity
// at runtime.
type Logger struct {
	zl    *zap.Logger
	level *zap.AtomicLevel
}

var (
	globalLogger     atomic.Pointer[Logger]
	globalLoggerOnce sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		if globalLogger.Load() != nil {
			return
		}
		config := GetGlobalConfig()
		globalLogger.Store(NewLogger(os.Stderr, parseLogLevel(config.LogLevel)))
	})
}

// parseLogLevel maps configuration level names to zap levels. "off" maps to
// a level above every real one so nothing is written.
func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "off":
		return zapcore.InvalidLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger creates a console logger writing to w at the given level
func NewLogger(w io.Writer, level zapcore.Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	atom := zap.NewAtomicLevelAt(level)

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(w), atom)

	return &Logger{zl: zap.New(core), level: &atom}
}

// NewLoggerFromZap adopts an already configured zap logger. Its level is
// governed by the zap core, so SetLevel has no effect on it.
func NewLoggerFromZap(zl *zap.Logger) *Logger {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{zl: zl}
}

// SetLevel changes the minimum level written by the logger and all loggers
// derived from it with WithField(s).
func (l *Logger) SetLevel(level zapcore.Level) {
	if l.level != nil {
		l.level.SetLevel(level)
	}
}

// IsDebugMode reports whether debug entries will be written.
// Callers use it to skip building fields on hot paths.
func (l *Logger) IsDebugMode() bool {
	return l.zl.Core().Enabled(zapcore.DebugLevel)
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With(zap.Any(key, value)), level: l.level}
}

func (l *Logger) WithFields(fields Fields) *Logger {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return &Logger{zl: l.zl.With(zf...), level: l.level}
}

// Zap exposes the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zl.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zl.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zl.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zl.Error(msg, fields...)
}

// Sync flushes any buffered entries
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// Global logging functions

func SetLogger(logger *Logger) {
	initGlobalLogger()
	if logger == nil {
		logger = NewLoggerFromZap(nil)
	}
	globalLogger.Store(logger)
}

func GetLogger() *Logger {
	initGlobalLogger()
	return globalLogger.Load()
}

func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields Fields) *Logger {
	return GetLogger().WithFields(fields)
}

// UpdateLoggerFromConfig updates the global logger based on the current global configuration
func UpdateLoggerFromConfig() {
	config := GetGlobalConfig()
	GetLogger().SetLevel(parseLogLevel(config.LogLevel))
}

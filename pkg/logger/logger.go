package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Default is the default logger instance
	Default *zap.SugaredLogger
)

func init() {
	// Initialize with info level by default
	Default = New("info", os.Stdout)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a new structured JSON logger with the specified level and output
func New(level string, output io.Writer) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(output),
		parseLevel(level),
	)
	return zap.New(core).Sugar()
}

// NewText creates a new console-formatted logger (useful for development)
func NewText(level string, output io.Writer) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(output),
		parseLevel(level),
	)
	return zap.New(core).Sugar()
}

// SetDefault sets the default logger
func SetDefault(logger *zap.SugaredLogger) {
	Default = logger
}

// Debug logs a debug message with key/value pairs
func Debug(msg string, args ...any) {
	Default.Debugw(msg, args...)
}

// Info logs an info message with key/value pairs
func Info(msg string, args ...any) {
	Default.Infow(msg, args...)
}

// Warn logs a warning message with key/value pairs
func Warn(msg string, args ...any) {
	Default.Warnw(msg, args...)
}

// Error logs an error message with key/value pairs
func Error(msg string, args ...any) {
	Default.Errorw(msg, args...)
}

// With returns a logger with additional attributes
func With(args ...any) *zap.SugaredLogger {
	return Default.With(args...)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Default.Sync()
}

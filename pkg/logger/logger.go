// Package logger wraps zap behind a process-wide structured logger with
// file + console output.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger initialization.
type Config struct {
	LogFile   string // Path of the log file; empty disables file output
	LogLevel  string // debug, info, warn or error
	AppName   string // Added to every entry as the "app" field
	AddCaller bool   // Annotate entries with the calling source line
}

// Logger is a thin wrapper around zap.Logger so packages depend on this
// package instead of zap's constructor surface.
type Logger struct {
	*zap.Logger
}

var (
	global *Logger
	once   sync.Once
)

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the global logger. Safe to call once per process; later calls
// are no-ops.
func Init(cfg Config) error {
	var initErr error

	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		level := parseLevel(cfg.LogLevel)

		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderCfg),
				zapcore.Lock(os.Stdout),
				level,
			),
		}

		if cfg.LogFile != "" {
			file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				initErr = err
				return
			}
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderCfg),
				zapcore.Lock(file),
				level,
			))
		}

		opts := []zap.Option{
			zap.Fields(zap.String("app", cfg.AppName)),
		}
		if cfg.AddCaller {
			opts = append(opts, zap.AddCaller())
		}

		global = &Logger{zap.New(zapcore.NewTee(cores...), opts...)}
	})

	return initErr
}

// Get returns the global logger. Falls back to a no-op logger when Init was
// never called, so tests can use packages that log without setup.
func Get() *Logger {
	if global == nil {
		return &Logger{zap.NewNop()}
	}
	return global
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if global != nil {
		_ = global.Logger.Sync()
	}
}

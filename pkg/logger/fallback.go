// pkg/logger/fallback.go

package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFallbackLogger builds a console-only logger for use before, or instead
// of, full initialization.
func NewFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// InitFallback installs a console-only logger.
func InitFallback() {
	l := NewFallbackLogger()
	zap.ReplaceGlobals(l)
	SetLogger(l)
}

// InitializeWithFallback sets up the real logger: console output plus a JSON
// file core at the first writable platform log path. Falls back to console
// only when no path is writable.
func InitializeWithFallback() {
	path := resolveLogPath()
	if path == "" {
		fmt.Fprintln(os.Stderr, "⚠️  No writable log path found. Logging to console only.")
		InitFallback()
		return
	}

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Could not open log file, logging to console only:", err)
		InitFallback()
		return
	}

	level := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(file), level),
	)

	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(l)
	SetLogger(l)
	l.Debug("Logger initialized", zap.String("log_path", path))
}

// resolveLogPath returns the first platform log path that can be created and
// opened for append, or "" when none is usable.
func resolveLogPath() string {
	for _, path := range PlatformLogPaths() {
		if err := EnsureLogPermissions(path); err == nil {
			return path
		}
	}
	return ""
}

// pkg/logger/logger.go

package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// L returns the active logger, or nil if none has been initialized.
func L() *zap.Logger {
	return log
}

// SetLogger replaces the package-level logger.
func SetLogger(l *zap.Logger) {
	log = l
}

// GetLogger returns the active logger, initializing a console fallback if
// nothing has been set up yet.
func GetLogger() *zap.Logger {
	if log == nil {
		InitFallback()
	}
	return log
}

// Sync flushes buffered log entries. Safe to call on a nil logger.
func Sync() error {
	if log == nil {
		return nil
	}
	// Syncing stdout on Linux returns EINVAL; that is not actionable.
	err := log.Sync()
	if err != nil && strings.Contains(err.Error(), "invalid argument") {
		return nil
	}
	return err
}

// ParseLogLevel maps a LOG_LEVEL-style string onto a zap level. Unknown or
// empty values default to Info.
func ParseLogLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// DefaultConsoleEncoderConfig returns the console encoder config used for
// terminal output.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// EnsureLogPermissions creates the log directory and file with owner-only
// permissions.
func EnsureLogPermissions(logFilePath string) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o700); err != nil {
		return err
	}
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	return file.Close()
}

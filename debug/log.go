// Package debug is the program's diagnostic log.
//
// The TUI owns the terminal, so logs go to a file. Logging is off unless a
// level is given (flag, config or MIDISCOPE_LOG_LEVEL); while off every
// logger is a no-op. Categories map to zap logger names:
//
//	debug.Named("conn").Info("open failed", zap.String("device", name), zap.Error(err))
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnvVar selects the level when none is configured
const LevelEnvVar = "MIDISCOPE_LOG_LEVEL"

var (
	mu      sync.Mutex
	logger  = zap.NewNop()
	enabled bool
)

// Enable starts logging at level to path, truncating it. An empty level
// falls back to LevelEnvVar; if that is empty too logging stays off.
func Enable(path, level string) error {
	if level == "" {
		level = os.Getenv(LevelEnvVar)
	}
	if level == "" {
		return nil
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if path == "" {
		return fmt.Errorf("log level %q set but no log file", level)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	enc.EncodeCaller = zapcore.ShortCallerEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(f), lvl)

	mu.Lock()
	defer mu.Unlock()
	logger = zap.New(core, zap.AddCaller())
	enabled = true
	logger.Info("=== Debug logging started ===", zap.Stringer("level", lvl))
	return nil
}

// Disable flushes and stops logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.NewNop()
	enabled = false
}

// Enabled reports whether a log file is active
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Named returns the logger for a category
func Named(category string) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger.Named(category)
}

// Sync flushes buffered entries
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
}

// Package logging provides config-driven categorized logging for Smart Beaver.
// Each category gets a named zap logger. Logging is controlled by debug_mode:
// when false, every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // CLI startup, config loading
	CategoryParse    Category = "parse"    // Rust source parsing
	CategoryMerge    Category = "merge"    // Extension merging
	CategoryLoader   Category = "loader"   // Source fetching and caching
	CategoryGenerate Category = "generate" // Contract generation
	CategoryManifest Category = "manifest" // Cargo.toml updates
	CategoryWatch    Category = "watch"    // Contracts directory watching
)

// Config mirrors config.LoggingConfig to avoid a circular import.
type Config struct {
	DebugMode  bool
	Level      string          // debug, info, warn, error
	Format     string          // json, text
	File       string          // empty means stderr
	Categories map[string]bool // per-category toggles
}

var (
	mu      sync.RWMutex
	cfg     Config
	root    *zap.Logger
	logFile *os.File // owned by root, nil for stderr
	loggers = make(map[Category]*zap.Logger)
)

// Initialize builds the root logger from cfg. Calling it again replaces the
// previous configuration.
func Initialize(c Config) error {
	l, f, err := build(c)
	if err != nil {
		return err
	}
	replace(c, l, f)

	if c.DebugMode {
		Get(CategoryBoot).Debug("logging initialized",
			zap.String("level", levelOf(c.Level).String()),
			zap.String("format", c.Format),
			zap.Int("categories", len(c.Categories)))
	}
	return nil
}

// InitializeWith installs an existing core, typically an observer core in tests.
func InitializeWith(c Config, core zapcore.Core) {
	replace(c, zap.New(core), nil)
}

// replace installs a new root logger, then flushes the old one and closes
// its log file.
func replace(c Config, l *zap.Logger, f *os.File) {
	mu.Lock()
	old, oldFile := root, logFile
	cfg = c
	root = l
	logFile = f
	loggers = make(map[Category]*zap.Logger)
	mu.Unlock()

	if old != nil {
		_ = old.Sync()
	}
	if oldFile != nil {
		_ = oldFile.Close()
	}
}

func build(c Config) (*zap.Logger, *os.File, error) {
	if !c.DebugMode {
		return zap.NewNop(), nil, nil
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	var f *os.File
	if c.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
	var enc zapcore.Encoder
	if strings.EqualFold(c.Format, "json") {
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, sink, levelOf(c.Level))), f, nil
}

func levelOf(s string) zapcore.Level {
	switch strings.ToLower(s) {
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

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if !cfg.DebugMode {
		return false
	}
	enabled, exists := cfg.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category. It returns a
// no-op logger before Initialize or when the category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := zap.NewNop()
	if root != nil && categoryEnabled(category) {
		l = root.Named(string(category))
	}
	loggers[category] = l
	return l
}

// Sync flushes buffered entries (call at shutdown).
func Sync() {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}

// Reset drops the configuration and all cached loggers, closing the log
// file if one is open.
func Reset() {
	replace(Config{}, nil, nil)
}

// Timer measures an operation and logs its duration at debug level.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop(fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug(t.op+" completed", append(fields, zap.Duration("took", elapsed))...)
	return elapsed
}

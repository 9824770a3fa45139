// Package logger wraps a process-wide zap logger.
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxFileSize triggers rotation when a log file is reopened.
const maxFileSize = 10 * 1024 * 1024

// Options configures Init.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	File   string // empty logs to stderr
}

type ctxKey struct{}

var global atomic.Pointer[zap.SugaredLogger]

func init() {
	cfg := productionConfig()
	l, err := cfg.Build()
	if err != nil {
		global.Store(zap.NewNop().Sugar())
		return
	}
	global.Store(l.Named("default").Sugar())
}

func productionConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Init replaces the global logger.
func Init(opts Options) error {
	cfg := productionConfig()
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}

	if opts.Level != "" {
		lvl, err := zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		cfg.Level = lvl
	}

	if opts.File != "" {
		if err := prepareFile(opts.File); err != nil {
			return err
		}
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	global.Store(l.Sugar())
	L().Infow("logger initialized", "level", cfg.Level.String(), "file", opts.File)
	return nil
}

// prepareFile creates the directory and rotates a file larger than maxFileSize.
func prepareFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxFileSize {
		return nil
	}
	backup := fmt.Sprintf("%s.%d", path, time.Now().Unix())
	if err := os.Rename(path, backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

// Set replaces the global logger; mostly for tests.
func Set(l *zap.SugaredLogger) {
	global.Store(l)
}

// L returns the global logger.
func L() *zap.SugaredLogger {
	return global.Load()
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return L()
}

// LogPanic logs a recovered panic with its stack trace.
func LogPanic(r any) {
	L().Errorw("panic recovered", "panic", r, "stack", string(debug.Stack()))
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

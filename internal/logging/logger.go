// Package logging provides leveled, optionally colored console logging with an
// optional append-mode file sink, built on zap.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger wraps a zap logger with the printf-style methods used across the
// pipeline. Errors go to stderr, everything else to stdout.
type Logger struct {
	mu    sync.Mutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
	file  *os.File
}

// NewLogger builds the console logger from cfg (color mode, verbosity) and
// optionally opens cfg.LogFile for appending. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	color := term.Configure(cfg.ColorMode)

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	belowError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.ErrorLevel
	})
	atError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})

	console := zapcore.NewConsoleEncoder(encoderConfig(color))
	cores := []zapcore.Core{
		zapcore.NewCore(console, zapcore.Lock(os.Stdout), belowError),
		zapcore.NewCore(console, zapcore.Lock(os.Stderr), atError),
	}

	var file *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		plain := zapcore.NewConsoleEncoder(encoderConfig(false))
		cores = append(cores, zapcore.NewCore(plain, zapcore.AddSync(f), level))
	}

	l := New(zapcore.NewTee(cores...))
	l.file = file
	return l, nil
}

// New wraps an existing core. Tests pass an observer core here.
func New(core zapcore.Core) *Logger {
	base := zap.New(core)
	return &Logger{base: base, sugar: base.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger { return New(zapcore.NewNopCore()) }

func encoderConfig(color bool) zapcore.EncoderConfig {
	enc := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if color {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return enc
}

// Zap exposes the underlying structured logger.
func (l *Logger) Zap() *zap.Logger { return l.base }

// Close flushes buffered entries and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.base.Sync() // stdout/stderr Sync fails on terminals
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Success logs at INFO level tagged status=ok.
func (l *Logger) Success(format string, args ...interface{}) {
	l.sugar.Infow(fmt.Sprintf(format, args...), "status", "ok")
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Debug logs at DEBUG level; dropped unless the logger was built verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

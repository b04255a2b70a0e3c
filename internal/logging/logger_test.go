package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/backmassage/qbank/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "qbank.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("to file")
	l.Debug("hidden without verbose")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	assert.NotContains(t, string(b), "hidden without verbose")
}

func TestNewLogger_VerboseWritesDebug(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Verbose = true
	cfg.LogFile = filepath.Join(t.TempDir(), "qbank.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Debug("detail %d", 7)
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "DEBUG")
	assert.Contains(t, string(b), "detail 7")
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(core)

	l.Info("i %s", "one")
	l.Success("done")
	l.Warn("w")
	l.Error("e")
	l.Debug("d")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "i one", entries[0].Message)
	assert.Equal(t, "ok", entries[1].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[4].Level)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	assert.NoError(t, l.Close())
}

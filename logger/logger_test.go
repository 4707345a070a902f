package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsewear.log")
	l, err := New("debug", "console", "pulsewear", &FileConfig{Path: path, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Debug("session started")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"session started"`)
	assert.Contains(t, string(b), `"service_name":"pulsewear"`)
}

func TestNewRejectsNegativeRotation(t *testing.T) {
	_, err := New("info", "json", "", &FileConfig{Path: "x.log", MaxBackups: -1})
	assert.Error(t, err)
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsewear.log")
	l, err := New("warn", "json", "", &FileConfig{Path: path})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), "shown")
}

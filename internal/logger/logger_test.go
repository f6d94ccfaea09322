package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"none", LevelNone},
		{"garbage", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "NONE", LevelNone.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestNewDisabledLogger(t *testing.T) {
	l, err := New(LevelNone, "", "")
	require.NoError(t, err)
	require.NotNil(t, l)

	// Must not panic or create files.
	l.Info("should go nowhere")
	require.NoError(t, l.Close())
}

func TestLoggerWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sub", "client.log")

	l, err := New(LevelDebug, logPath, "pool")
	require.NoError(t, err)
	defer l.Close()

	l.Debug("handle built for %s", "/tmp/proj")
	l.Info("probe ok")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	assert.Contains(t, string(data), "[DEBUG] [pool] handle built for /tmp/proj")
	assert.Contains(t, string(data), "[INFO] [pool] probe ok")
}

func TestLoggerLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "client.log")

	l, err := New(LevelWarn, logPath, "")
	require.NoError(t, err)
	defer l.Close()

	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")
	l.Error("also kept")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
	assert.Contains(t, string(data), "also kept")
}

func TestWithPrefixChains(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "client.log")

	base, err := New(LevelInfo, logPath, "tracker")
	require.NoError(t, err)
	defer base.Close()

	child := base.WithPrefix("dispatch")
	child.Info("routed")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[tracker:dispatch] routed")
}

func TestSetLevel(t *testing.T) {
	l, err := New(LevelNone, "", "")
	require.NoError(t, err)

	l.SetLevel(LevelError)
	assert.Equal(t, LevelError, l.GetLevel())
}

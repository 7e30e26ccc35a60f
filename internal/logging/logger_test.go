package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("tick", "frame", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tick", rec["msg"])
	assert.Equal(t, float64(3), rec["frame"])
}

func TestNewConsoleFiltersLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "ref", "x.json")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "ref=x.json")
}

func TestAutoFormatForNonTerminal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, _, err := New(Options{Format: "auto", Output: &buf})
	require.NoError(t, err)
	logger.Info("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestLogFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "avatar.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Format: "json", Output: &buf, File: path})
	require.NoError(t, err)
	logger.Info("to both")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	_, _, err := New(Options{Format: "xml", Output: &bytes.Buffer{}})
	assert.Error(t, err)

	_, _, err = New(Options{Format: "json", File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

package log

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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	l, c := New(Options{Level: "info", Format: "json"}, &buf)
	defer c.Close()

	WithComponent(l, "builder").Info("section toggled", "section", "hero")
	l.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "section toggled", rec["msg"])
	assert.Equal(t, "builder", rec["component"])
	assert.Equal(t, "portfolio-builder", rec["app"])
	assert.Equal(t, "hero", rec["section"])
}

func TestConsoleText(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Options{Level: "warn"}, &buf)
	l.Info("skipped")
	l.Warn("kept", "n", 3)
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "msg=kept")
	assert.Contains(t, buf.String(), "n=3")
}

func TestFileMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.log")
	var buf bytes.Buffer
	l, c := New(Options{Level: "info", File: path}, &buf)
	l.Info("reset", "session", "abc")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"reset"`)
	assert.Contains(t, buf.String(), "msg=reset")
}

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefault puts back the global logger replaced by Init.
func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestNew_HasComponent(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	New("runner").Info("hello")

	assert.Contains(t, buf.String(), "component=runner")
	assert.Contains(t, buf.String(), "hello")
}

func TestInit_TextFormat(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(slog.LevelInfo, "text", &buf)

	New("fmt-test").Info("text check")

	assert.Contains(t, buf.String(), "level=INFO")
}

func TestInit_JSONFormat(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	New("json-test").Info("json check")

	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"component":"json-test"`)
}

func TestInit_UnknownFormatFallsBackToText(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(slog.LevelInfo, "yaml", &buf)

	New("fallback").Info("plain")

	assert.Contains(t, buf.String(), "level=INFO")
	assert.NotContains(t, buf.String(), "{")
}

func TestInit_LevelGating(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	logger := New("gate-test")
	logger.Info("should be suppressed")
	logger.Warn("should appear")

	assert.NotContains(t, buf.String(), "should be suppressed")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNewHandler_DoesNotTouchDefault(t *testing.T) {
	restoreDefault(t)
	before := slog.Default()

	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.LevelDebug, "json", &buf))
	logger.Debug("scoped")

	assert.Same(t, before, slog.Default())
	assert.Contains(t, buf.String(), `"msg":"scoped"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	_, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"verbose"`)
}

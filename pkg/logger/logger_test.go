package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithFormat_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("info", "json", &buf)

	log.Debug("hidden")
	log.Info("dish created", "id", 11)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "only the info line should be written")
	assert.Equal(t, "dish created", entry["msg"])
	assert.Equal(t, float64(11), entry["id"])
}

func TestNewWithFormat_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("debug", "text", &buf)

	log.Debug("starting", "port", 8000)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=starting")
	assert.Contains(t, out, "port=8000")
}

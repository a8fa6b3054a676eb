package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "solarquiz.log")

	log, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)
	log.Debug("narration started", zap.Int("items", 8))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "narration started", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 8, entry["items"])
	assert.Contains(t, entry, "ts")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(zapcore.AddSync(&buf), zapcore.WarnLevel)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "verbose", File: Stderr})
	assert.Error(t, err)
}

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.SaveBackend)
	assert.Equal(t, 720*time.Hour, cfg.SaveTTL)
	assert.Equal(t, 40, cfg.TextboxWidth)
	assert.Equal(t, 30, cfg.SoundFrames)
	assert.Equal(t, "hints.json", cfg.HintTable)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SAVE_BACKEND", " Redis ")
	t.Setenv("REDIS_URL", "redis:6380")
	t.Setenv("SAVE_TTL", "2h")
	t.Setenv("START_SCENE", "2501")
	t.Setenv("START_FRAME", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, BackendRedis, cfg.SaveBackend)
	assert.Equal(t, "redis:6380", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SaveTTL)
	assert.Equal(t, uint16(2501), cfg.StartScene)
	assert.Equal(t, uint16(3), cfg.StartFrame)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "SAVE_BACKEND", "postgres"},
		{"zero sound frames", "SOUND_FRAMES", "0"},
		{"negative width", "TEXTBOX_WIDTH", "-1"},
		{"scene out of range", "START_SCENE", "70000"},
		{"bad duration", "SAVE_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 1280.0, cfg.ViewportWidth)
	assert.Equal(t, 720.0, cfg.ViewportHeight)
	assert.Empty(t, cfg.OperatorPasswordHash)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FPS", "60")
	t.Setenv("TOKEN_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("FPS", "fast")
	_, err := Load()
	assert.Error(t, err)
}

func TestFrameInterval(t *testing.T) {
	assert.Equal(t, time.Second/60, (&Config{FPS: 60}).FrameInterval())
	assert.Equal(t, time.Second/30, (&Config{}).FrameInterval())
}

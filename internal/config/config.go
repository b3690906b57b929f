package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int        `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string   `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       slog.Level `envconfig:"LOG_LEVEL" default:"info"`

	// Frame loop
	FPS            int     `envconfig:"FPS" default:"30"`
	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"720"`

	// Operator login. An empty hash disables it.
	JWTSecret            string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	OperatorPasswordHash string        `envconfig:"OPERATOR_PASSWORD_HASH"`
	TokenTTL             time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FrameInterval is the time between frames at the configured rate.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}

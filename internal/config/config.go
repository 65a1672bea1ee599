package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Environment  string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string        `env:"LOG_LEVEL" envDefault:"info"`
	DataDir      string        `env:"DATA_DIR" envDefault:"./data"`
	SaveBackend  string        `env:"SAVE_BACKEND" envDefault:"memory"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"./data/saves.db"`
	SaveTTL      time.Duration `env:"SAVE_TTL" envDefault:"720h"`
	HintResource string        `env:"HINT_RESOURCE" envDefault:"game.exe"`
	HintTable    string        `env:"HINT_TABLE" envDefault:"hints.json"`
	TextboxWidth int           `env:"TEXTBOX_WIDTH" envDefault:"40"`
	SoundFrames  int           `env:"SOUND_FRAMES" envDefault:"30"`
	StartScene   uint16        `env:"START_SCENE" envDefault:"0"`
	StartFrame   uint16        `env:"START_FRAME" envDefault:"0"`

	// LogLevel is parsed from LogLevelName.
	LogLevel slog.Level
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.SaveBackend = strings.ToLower(strings.TrimSpace(cfg.SaveBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the env tags cannot express.
func (c *Config) Validate() error {
	switch c.SaveBackend {
	case BackendRedis, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown save backend %q", c.SaveBackend)
	}
	if c.TextboxWidth < 0 {
		return fmt.Errorf("textbox width must not be negative: %d", c.TextboxWidth)
	}
	if c.SoundFrames <= 0 {
		return fmt.Errorf("sound frames must be positive: %d", c.SoundFrames)
	}
	if c.SaveTTL < 0 {
		return fmt.Errorf("save ttl must not be negative: %s", c.SaveTTL)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

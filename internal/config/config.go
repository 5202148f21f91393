package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	Game   GameConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	// Port accepts "8080", ":8080" or "127.0.0.1:8080".
	Port string `env:"PORT" envDefault:"8080"`

	// Addr is the normalized listen address derived from Port.
	Addr string `env:"-"`
}

// GameConfig describes session lifecycle settings.
type GameConfig struct {
	// Retention is how long a session lives before the reclamation
	// sweep removes it, occupied or not.
	Retention time.Duration `env:"GAME_RETENTION" envDefault:"24h"`

	// SweepInterval is the cadence of the reclamation sweep. One sweep
	// also runs at startup.
	SweepInterval time.Duration `env:"GAME_SWEEP_INTERVAL" envDefault:"1h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.Game.Retention <= 0 {
		return nil, fmt.Errorf("GAME_RETENTION must be positive, got %s", cfg.Game.Retention)
	}
	if cfg.Game.SweepInterval <= 0 {
		return nil, fmt.Errorf("GAME_SWEEP_INTERVAL must be positive, got %s", cfg.Game.SweepInterval)
	}

	return &cfg, nil
}

func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080", nil
	}

	if strings.Contains(port, ":") {
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

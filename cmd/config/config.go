package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the daemon configuration, populated from AXIS_* environment
// variables.
type Config struct {
	DBDir           string        `envconfig:"DB_DIR"`
	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	BuybackInterval time.Duration `envconfig:"BUYBACK_INTERVAL" default:"720h"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func DefaultDBDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".axis", "data")
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("AXIS", cfg); err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = DefaultDBDir()
	}
	return cfg, nil
}

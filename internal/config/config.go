package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"2468.db"`
	Debug  bool   `env:"DEBUG" envDefault:"false"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

package web

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config captures server settings from the environment.
type Config struct {
	Addr       string `env:"HUNCH_ADDR" envDefault:":8080"`
	DBPath     string `env:"HUNCH_DB"`
	RulesetDir string `env:"HUNCH_RULESETS" envDefault:"rulesets"`
	CacheSize  int    `env:"HUNCH_CACHE_SIZE" envDefault:"256"`
}

// ParseEnv loads the server configuration from environment variables.
// An empty HUNCH_DB selects the in-memory session store.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"time"
)

// EnvToken names the environment variable holding a saved bearer token.
const EnvToken = "TASKKEEPER_TOKEN"

// Config holds runtime settings for the taskkeeper CLI.
type Config struct {
	ServerURL string
	Timeout   time.Duration
	Token     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 10 * time.Second
	c.Token = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv(EnvToken); ok {
		cfg.Token = v
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server url must not be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}

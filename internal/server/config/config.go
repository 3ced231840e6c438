// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// MinSecretLength is the shortest accepted token signing secret, in bytes.
const MinSecretLength = 32

// Config holds runtime settings for the taskkeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps credentials in memory.
//   - SecretKey: HMAC secret for signing tokens (HS256). Required.
//   - TokenValidityDuration: lifetime of issued tokens.
//   - KDFAlgorithm / KDFIterations: parameters for new credentials. Zero
//     iterations selects the algorithm's default cost (PBKDF2 iterations or
//     argon2id time cost).
//   - KDFWorkers / KDFTimeout: size of the key derivation pool and the
//     longest a request waits for a free worker.
//   - MinPasswordLength: registration policy.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP      string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	KDFAlgorithm          string
	KDFIterations         int
	KDFWorkers            int
	KDFTimeout            time.Duration
	MinPasswordLength     int
	LogLevel              string
}

// LoadDefaults populates Config with development defaults. There is no
// default secret; one must be supplied.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenValidityDuration = time.Hour
	c.KDFAlgorithm = cryptox.AlgorithmPBKDF2SHA256
	c.KDFIterations = 0
	c.KDFWorkers = runtime.NumCPU()
	c.KDFTimeout = 5 * time.Second
	c.MinPasswordLength = 6
	c.LogLevel = "info"
}

// KDFParams returns the key derivation parameters for new credentials.
func (c *Config) KDFParams() cryptox.Params {
	iterations := c.KDFIterations
	if iterations == 0 {
		iterations = cryptox.DefaultIterationsFor(c.KDFAlgorithm)
	}
	return cryptox.Params{Algorithm: c.KDFAlgorithm, Iterations: iterations}
}

// Validate reports the first setting that would prevent a safe start.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return common.ErrMissingSecret
	}
	if len(c.SecretKey) < MinSecretLength {
		return fmt.Errorf("%w: secret key must be at least %d bytes", common.ErrInvalidConfig, MinSecretLength)
	}
	if c.TokenValidityDuration <= 0 {
		return fmt.Errorf("%w: token validity duration must be positive", common.ErrInvalidConfig)
	}
	if c.KDFIterations < 0 {
		return fmt.Errorf("%w: kdf iterations must not be negative", common.ErrInvalidConfig)
	}
	if err := c.KDFParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if c.KDFWorkers <= 0 {
		return fmt.Errorf("%w: kdf workers must be positive", common.ErrInvalidConfig)
	}
	if c.KDFTimeout < 0 {
		return fmt.Errorf("%w: kdf timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("%w: minimum password length must be positive", common.ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

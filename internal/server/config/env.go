package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvAddress       = "TASKKEEPER_ADDRESS"
	EnvDatabaseDSN   = "TASKKEEPER_DATABASE_DSN"
	EnvSecretKey     = "TASKKEEPER_SECRET_KEY"
	EnvTokenTTL      = "TASKKEEPER_TOKEN_TTL"
	EnvKDFIterations = "TASKKEEPER_KDF_ITERATIONS"
	EnvLogLevel      = "TASKKEEPER_LOG_LEVEL"
)

// parseEnv overlays settings from the environment. Unset variables leave
// the current values alone. TASKKEEPER_TOKEN_TTL takes a Go duration
// such as "30m".
func parseEnv(config *Config) error {
	if v, ok := os.LookupEnv(EnvAddress); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		config.LogLevel = v
	}

	if v, ok := os.LookupEnv(EnvTokenTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", EnvTokenTTL, err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := os.LookupEnv(EnvKDFIterations); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", EnvKDFIterations, err)
		}
		config.KDFIterations = n
	}

	return nil
}

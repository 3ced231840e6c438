package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// tell an absent key apart from a zero value, so only keys present in the
// file override earlier settings.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	KDFAlgorithm          *string         `json:"kdf_algorithm"`
	KDFIterations         *int            `json:"kdf_iterations"`
	KDFWorkers            *int            `json:"kdf_workers"`
	KDFTimeout            *timex.Duration `json:"kdf_timeout"`
	MinPasswordLength     *int            `json:"min_password_length"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads the file named by -c or -config into config. Without
// either flag nothing happens.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", jsonConfigFile, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.KDFAlgorithm, c.KDFAlgorithm)
	setIf(&config.KDFIterations, c.KDFIterations)
	setIf(&config.KDFWorkers, c.KDFWorkers)
	setIf(&config.MinPasswordLength, c.MinPasswordLength)
	setIf(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.KDFTimeout != nil {
		config.KDFTimeout = c.KDFTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("loads every key", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http":      "127.0.0.1:9000",
			"database_dsn":            "postgres://db",
			"secret_key":              "my_secret_key",
			"token_validity_duration": "30m",
			"kdf_algorithm":           "argon2id",
			"kdf_iterations":          3,
			"kdf_workers":             2,
			"kdf_timeout":             int64(2 * time.Second),
			"min_password_length":     12,
			"log_level":               "debug",
		})
		setArgs(t, "-config", path)

		cfg := &Config{}
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, Config{
			EndpointAddrHTTP:      "127.0.0.1:9000",
			DatabaseDSN:           "postgres://db",
			SecretKey:             "my_secret_key",
			TokenValidityDuration: 30 * time.Minute,
			KDFAlgorithm:          "argon2id",
			KDFIterations:         3,
			KDFWorkers:            2,
			KDFTimeout:            2 * time.Second,
			MinPasswordLength:     12,
			LogLevel:              "debug",
		}, *cfg)
	})

	t.Run("absent keys keep current values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"log_level": "warn"})
		setArgs(t, "-c", path)

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, time.Hour, cfg.TokenValidityDuration)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		setArgs(t)

		cfg := &Config{EndpointAddrHTTP: "defaults:1234"}
		require.NoError(t, parseJson(cfg))
		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		setArgs(t, "-config", bad)

		assert.ErrorContains(t, parseJson(&Config{}), "error parsing config file")
	})

	t.Run("missing file", func(t *testing.T) {
		setArgs(t, "-config", filepath.Join(t.TempDir(), "nope.json"))

		assert.ErrorContains(t, parseJson(&Config{}), "error reading config file")
	})
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv(EnvAddress, ":9999")
	t.Setenv(EnvDatabaseDSN, "postgres://env")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvTokenTTL, "15m")
	t.Setenv(EnvKDFIterations, "5000")
	t.Setenv(EnvLogLevel, "debug")

	cfg := &Config{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, 5000, cfg.KDFIterations)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func Test_parseEnv_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad ttl", key: EnvTokenTTL, value: "forever"},
		{name: "bad iterations", key: EnvKDFIterations, value: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.ErrorContains(t, parseEnv(&Config{}), tt.key)
		})
	}
}

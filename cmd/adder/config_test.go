package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"NAMESPACE", "SERVICE_NAME", "LOG_LEVEL", "HOST", "PORT", "GRPC_PORT",
	"SERVICE_HOST", "ZIPKIN_V2_URL", "CONSUL_ADDR", "METRICS_ENABLED", "SHUTDOWN_TIMEOUT",
}

// clearEnv unsets every config variable for the duration of the test so
// values exported by the calling shell cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, "", cfg.GRPCPort)
	assert.Equal(t, "adder", cfg.ServiceName)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "aidevops", cfg.NameSpace)
	assert.Equal(t, "localhost", cfg.ServiceHost)
	assert.Equal(t, "", cfg.ZipkinV2URL)
	assert.Equal(t, "", cfg.ConsulAddr)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigIgnoresCallerEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	clearEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfigPortOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non-numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"bad grpc port", "GRPC_PORT", "x"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero shutdown timeout", "SHUTDOWN_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
port = 9100
log_level = "debug"
storage_backend = "memory"
geo_provider = "static"
static_lat = 44.8
static_lng = 20.4
allowed_origins = ["http://localhost:8080"]

[production]
host = "0.0.0.0"
storage_backend = "postgres"
geo_provider = "ipinfo"
submit_rate_limit_per_min = 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("dev", writeConfig(t, testConfigToml))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, GeoProviderStatic, cfg.GeoProvider)
	assert.Equal(t, 44.8, cfg.StaticLat)
	assert.Equal(t, 20.4, cfg.StaticLng)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowedOrigins)
	// defaults
	assert.Equal(t, 13, cfg.MapZoomLevel)
	assert.Equal(t, 30, cfg.SubmitRateLimitPerMin)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "2112", cfg.PrometheusMetricsPort)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("production", writeConfig(t, testConfigToml))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, GeoProviderIPInfo, cfg.GeoProvider)
	assert.Equal(t, 5, cfg.SubmitRateLimitPerMin)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load("staging", writeConfig(t, testConfigToml))
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("prod", writeConfig(t, "[development]\nport = 1\n"))
	assert.EqualError(t, err, "config for env [prod] missing")

	_, err = Load("dev", writeConfig(t, "[development]\nstorage_backend = \"sqlite\"\n"))
	assert.EqualError(t, err, "invalid storage backend: sqlite")

	_, err = Load("dev", writeConfig(t, "[development]\ngeo_provider = \"gps\"\n"))
	assert.EqualError(t, err, "invalid geo provider: gps")

	_, err = Load("dev", writeConfig(t, "[development\n"))
	assert.Error(t, err)
}

func TestLoad_RepoConfig(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.Equal(t, env, cfg.Environment)
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageFile     = "file"
	StorageMemory   = "memory"

	GeoProviderIPBase = "ipbase"
	GeoProviderIPInfo = "ipinfo"
	GeoProviderStatic = "static"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	StorageBackend  string `toml:"storage_backend"`
	StorageKey      string `toml:"storage_key"`
	StorageFilePath string `toml:"storage_file_path"`

	// redis is used for the redis storage backend, the position cache and rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// geolocation
	GeoProvider       string  `toml:"geo_provider"`
	GeoIPBaseEndpoint string  `toml:"geo_ip_base_endpoint"`
	GeoIP             string  `toml:"geo_ip"`
	StaticLat         float64 `toml:"static_lat"`
	StaticLng         float64 `toml:"static_lng"`

	MapZoomLevel          int      `toml:"map_zoom_level"`
	AllowedOrigins        []string `toml:"allowed_origins"`
	SubmitRateLimitPerMin int      `toml:"submit_rate_limit_per_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file and returns the config of the given environment,
// with defaults applied to the unset values.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageRedis
	}
	if c.StorageFilePath == "" {
		c.StorageFilePath = "./data/workouts.json"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "mapty"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.GeoProvider == "" {
		c.GeoProvider = GeoProviderStatic
	}
	if c.GeoIPBaseEndpoint == "" {
		c.GeoIPBaseEndpoint = "https://api.ipbase.com"
	}
	if c.MapZoomLevel <= 0 {
		c.MapZoomLevel = 13
	}
	if c.SubmitRateLimitPerMin <= 0 {
		c.SubmitRateLimitPerMin = 30
	}
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageRedis, StoragePostgres, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s", c.StorageBackend)
	}

	switch c.GeoProvider {
	case GeoProviderIPBase, GeoProviderIPInfo, GeoProviderStatic:
	default:
		return fmt.Errorf("invalid geo provider: %s", c.GeoProvider)
	}

	if c.Port < 0 || c.Port > 65535 {
		return errors.New("port out of range")
	}

	return nil
}

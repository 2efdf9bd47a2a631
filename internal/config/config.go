package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host        string
	Port        int
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	MigrationsPath string `toml:"migrations_path"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// live sessions
	SessionInactivityMinutes      int `toml:"session_inactivity_minutes"`
	SessionMinNotifyMinutes       int `toml:"session_min_notify_minutes"`
	SessionSweepIntervalSeconds   int `toml:"session_sweep_interval_seconds"`
	SessionFinalizeTimeoutSeconds int `toml:"session_finalize_timeout_seconds"`
	// notifications
	PushGatewayURL string `toml:"push_gateway_url"`
	// records
	RecordsCacheSizeMB int `toml:"records_cache_size_mb"`
	// rate limiting
	EditRateLimitAllowedPerMin int `toml:"edit_rate_limit_allowed_per_min"`
	// cors
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env, with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SessionInactivityMinutes <= 0 {
		c.SessionInactivityMinutes = 45
	}
	if c.SessionMinNotifyMinutes <= 0 {
		c.SessionMinNotifyMinutes = 30
	}
	if c.SessionSweepIntervalSeconds <= 0 {
		c.SessionSweepIntervalSeconds = 60
	}
	if c.SessionFinalizeTimeoutSeconds <= 0 {
		c.SessionFinalizeTimeoutSeconds = 10
	}
	if c.RecordsCacheSizeMB <= 0 {
		c.RecordsCacheSizeMB = 10
	}
	if c.EditRateLimitAllowedPerMin <= 0 {
		c.EditRateLimitAllowedPerMin = 120
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "./migrations"
	}
}

func (c *Config) SessionInactivity() time.Duration {
	return time.Duration(c.SessionInactivityMinutes) * time.Minute
}

func (c *Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.SessionSweepIntervalSeconds) * time.Second
}

func (c *Config) SessionFinalizeTimeout() time.Duration {
	return time.Duration(c.SessionFinalizeTimeoutSeconds) * time.Second
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

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
	PostgresUser   string `toml:"postgres_user"`
	MigrateOnStart bool   `toml:"migrate_on_start"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// auth
	AccessTokenTTL             time.Duration `toml:"access_token_ttl"`
	RefreshTokenTTL            time.Duration `toml:"refresh_token_ttl"`
	AuthRateLimitAllowedPerMin int           `toml:"auth_rate_limit_allowed_per_min"`

	// media
	MediaRootPath string `toml:"media_root_path"`
	MediaBaseURL  string `toml:"media_base_url"`

	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`
	TaxonomyCacheBytes int      `toml:"taxonomy_cache_bytes"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, errors.New("development config missing")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, errors.New("production config missing")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with defaults filled in for anything left out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return loadFrom(&t, env)
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return loadFrom(&t, env)
}

func loadFrom(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if c.AuthRateLimitAllowedPerMin == 0 {
		c.AuthRateLimitAllowedPerMin = 10
	}
	if c.MediaBaseURL == "" {
		c.MediaBaseURL = "/media"
	}
	if c.TaxonomyCacheBytes == 0 {
		c.TaxonomyCacheBytes = 4 * 1024 * 1024
	}
}

// Secrets are never kept in the config file.
type Secrets struct {
	JWTSecret        string `env:"QUILLHUB_JWT_SECRET"`
	PostgresPassword string `env:"QUILLHUB_POSTGRES_PASS"`
	RedisPassword    string `env:"QUILLHUB_REDIS_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"quillhub"`
}

func LoadSecrets() (*Secrets, error) {
	secrets, err := env.ParseAs[Secrets]()
	if err != nil {
		return nil, fmt.Errorf("parse secrets from env: %w", err)
	}
	return &secrets, nil
}

// LoadSecretsFrom parses secrets from the given variables instead of the process environment.
func LoadSecretsFrom(vars map[string]string) (*Secrets, error) {
	var secrets Secrets
	if err := env.ParseWithOptions(&secrets, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse secrets: %w", err)
	}
	return &secrets, nil
}

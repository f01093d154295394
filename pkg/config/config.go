package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the backoffice service
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	HealthPort      int           `yaml:"health_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration for distributed rate limiting.
// Rate limiting is disabled when URL is empty.
type RedisConfig struct {
	URL            string        `yaml:"url"`
	RateLimit      int           `yaml:"rate_limit"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	RateWindow     time.Duration `yaml:"rate_window"`
}

// AuthConfig holds OIDC token verification configuration
type AuthConfig struct {
	IssuerURL string `yaml:"issuer_url"`
	ClientID  string `yaml:"client_id"`
	// SkipVerify disables signature verification; only for local development
	SkipVerify bool `yaml:"skip_verify"`
}

// ObservabilityConfig holds logging and telemetry configuration
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTelEnabled    bool   `yaml:"otel_enabled"`
	OTelEndpoint   string `yaml:"otel_endpoint"`
	OTelInsecure   bool   `yaml:"otel_insecure"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
}

// Load builds configuration from an optional YAML file plus environment
// variables. Environment variables always win over file values. The file
// path comes from BACKOFFICE_CONFIG_FILE and may be empty.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("BACKOFFICE_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			HealthPort:      9090,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			RateLimit:      100,
			RateLimitBurst: 20,
			RateWindow:     time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			ServiceName:    "backoffice",
			ServiceVersion: "dev",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("BACKOFFICE_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("BACKOFFICE_PORT", cfg.Server.Port)
	cfg.Server.HealthPort = getEnvInt("BACKOFFICE_HEALTH_PORT", cfg.Server.HealthPort)
	cfg.Server.ReadTimeout = getEnvDuration("BACKOFFICE_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("BACKOFFICE_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("BACKOFFICE_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("BACKOFFICE_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Database.URL = getEnv("BACKOFFICE_DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = getEnvInt("BACKOFFICE_DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("BACKOFFICE_DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvDuration("BACKOFFICE_DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)

	cfg.Redis.URL = getEnv("BACKOFFICE_REDIS_URL", cfg.Redis.URL)
	cfg.Redis.RateLimit = getEnvInt("BACKOFFICE_RATE_LIMIT", cfg.Redis.RateLimit)
	cfg.Redis.RateLimitBurst = getEnvInt("BACKOFFICE_RATE_LIMIT_BURST", cfg.Redis.RateLimitBurst)
	cfg.Redis.RateWindow = getEnvDuration("BACKOFFICE_RATE_WINDOW", cfg.Redis.RateWindow)

	cfg.Auth.IssuerURL = getEnv("BACKOFFICE_OIDC_ISSUER", cfg.Auth.IssuerURL)
	cfg.Auth.ClientID = getEnv("BACKOFFICE_OIDC_CLIENT_ID", cfg.Auth.ClientID)
	cfg.Auth.SkipVerify = getEnvBool("BACKOFFICE_OIDC_SKIP_VERIFY", cfg.Auth.SkipVerify)

	cfg.Observability.LogLevel = getEnv("BACKOFFICE_LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.OTelEnabled = getEnvBool("BACKOFFICE_OTEL_ENABLED", cfg.Observability.OTelEnabled)
	cfg.Observability.OTelEndpoint = getEnv("BACKOFFICE_OTEL_ENDPOINT", cfg.Observability.OTelEndpoint)
	cfg.Observability.OTelInsecure = getEnvBool("BACKOFFICE_OTEL_INSECURE", cfg.Observability.OTelInsecure)
	cfg.Observability.ServiceName = getEnv("BACKOFFICE_SERVICE_NAME", cfg.Observability.ServiceName)
	cfg.Observability.ServiceVersion = getEnv("BACKOFFICE_SERVICE_VERSION", cfg.Observability.ServiceVersion)
}

// Validate checks that required configuration values are present and sane
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set BACKOFFICE_DATABASE_URL)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort <= 0 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must differ")
	}
	if !c.Auth.SkipVerify {
		if c.Auth.IssuerURL == "" {
			return fmt.Errorf("OIDC issuer URL is required (set BACKOFFICE_OIDC_ISSUER)")
		}
		if c.Auth.ClientID == "" {
			return fmt.Errorf("OIDC client ID is required (set BACKOFFICE_OIDC_CLIENT_ID)")
		}
	}
	if c.Redis.URL != "" && c.Redis.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive when Redis is configured")
	}
	return nil
}

// Addr returns the listen address for the API server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HealthAddr returns the listen address for the health/metrics server
func (c *ServerConfig) HealthAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HealthPort)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Versioning VersioningConfig
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Port            string        `env:"PORT"             envDefault:"8080"`
	Host            string        `env:"HOST"             envDefault:"0.0.0.0"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type AuthConfig struct {
	APIKeys []string `env:"API_KEYS" envSeparator:","` // Empty disables API key authentication
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// VersioningConfig selects how the API version is read from a request.
// Exactly one strategy is active per process.
type VersioningConfig struct {
	Strategy       string `env:"API_VERSION_STRATEGY"       envDefault:"header"`
	HeaderName     string `env:"API_VERSION_HEADER"         envDefault:"x-api-version"`
	QueryParam     string `env:"API_VERSION_QUERY_PARAM"    envDefault:"api-version"`
	DefaultVersion string `env:"API_DEFAULT_VERSION"        envDefault:"1"`
	AssumeDefault  bool   `env:"API_ASSUME_DEFAULT_VERSION" envDefault:"true"`
	ReportVersions bool   `env:"API_REPORT_VERSIONS"        envDefault:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch strings.ToLower(c.Versioning.Strategy) {
	case "header":
		if c.Versioning.HeaderName == "" {
			return fmt.Errorf("API_VERSION_HEADER is required for the header strategy")
		}
	case "query":
		if c.Versioning.QueryParam == "" {
			return fmt.Errorf("API_VERSION_QUERY_PARAM is required for the query strategy")
		}
	case "url":
	default:
		return fmt.Errorf("invalid API version strategy: %s (must be header, query, or url)", c.Versioning.Strategy)
	}

	if c.Versioning.AssumeDefault && c.Versioning.DefaultVersion == "" {
		return fmt.Errorf("API_DEFAULT_VERSION is required when the default version is assumed")
	}

	return nil
}

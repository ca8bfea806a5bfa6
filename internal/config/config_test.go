package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Auth.APIKeys)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	assert.Equal(t, "header", cfg.Versioning.Strategy)
	assert.Equal(t, "x-api-version", cfg.Versioning.HeaderName)
	assert.Equal(t, "api-version", cfg.Versioning.QueryParam)
	assert.Equal(t, "1", cfg.Versioning.DefaultVersion)
	assert.True(t, cfg.Versioning.AssumeDefault)
	assert.True(t, cfg.Versioning.ReportVersions)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("API_KEYS", "apitest,testkey123")
	t.Setenv("API_VERSION_STRATEGY", "url")
	t.Setenv("API_ASSUME_DEFAULT_VERSION", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"apitest", "testkey123"}, cfg.Auth.APIKeys)
	assert.Equal(t, "url", cfg.Versioning.Strategy)
	assert.False(t, cfg.Versioning.AssumeDefault)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad strategy", "API_VERSION_STRATEGY", "media-type"},
		{"bad duration", "READ_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_StrategyRequirements(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Port: "8080"},
			LogLevel: "info",
			Versioning: VersioningConfig{
				Strategy:       "header",
				HeaderName:     "x-api-version",
				QueryParam:     "api-version",
				DefaultVersion: "1",
				AssumeDefault:  true,
			},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Versioning.HeaderName = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Versioning.Strategy = "query"
	cfg.Versioning.QueryParam = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Versioning.DefaultVersion = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Versioning.DefaultVersion = ""
	cfg.Versioning.AssumeDefault = false
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())
}

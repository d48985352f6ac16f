package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "taskhub-api", cfg.JWT.Issuer)
	assert.Equal(t, 10, cfg.Bcrypt.Cost)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "notifications", cfg.Redis.ChannelPrefix)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("ENABLE_METRICS", "false")
	t.Setenv("DB_NAME", "taskhub_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, 4, cfg.Bcrypt.Cost)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.GetAddr())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Contains(t, cfg.Database.GetDSN(), "dbname=taskhub_test")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"placeholder secret", map[string]string{"JWT_SECRET": placeholderSecret}},
		{"bcrypt cost too high", map[string]string{"JWT_SECRET": "s", "BCRYPT_COST": "40"}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "SERVER_PORT": "70000"}},
		{"zero expiry", map[string]string{"JWT_SECRET": "s", "JWT_EXPIRES_IN": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_Warnings(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Environment: "development"},
		Database: DatabaseConfig{SSLMode: "disable"},
		Security: SecurityConfig{CORSAllowedOrigins: "*"},
	}
	assert.Empty(t, cfg.Warnings(), "only production is checked")

	cfg.App.Environment = "production"
	assert.Equal(t, []string{
		"CORS allows every origin",
		"database connection is not encrypted",
		"rate limiting is disabled",
	}, cfg.Warnings())

	cfg.Security = SecurityConfig{CORSAllowedOrigins: "https://app.example.com", RateLimitRequests: 100}
	cfg.Database.SSLMode = "require"
	assert.Empty(t, cfg.Warnings())
}

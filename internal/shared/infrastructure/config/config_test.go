package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/echoplay/echoplay-backend/internal/shared/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "echoplay", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "https://saavn.dev", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.CacheTTL)
	assert.True(t, cfg.Migrations.RunOnBoot)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_EXPIRATION", "1h")
	t.Setenv("CATALOG_BASE_URL", "http://localhost:3000")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "http://localhost:3000", cfg.Catalog.BaseURL)
	assert.False(t, cfg.Migrations.RunOnBoot)
}

func TestLoad_MalformedDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "not-a-duration")

	cfg := config.Load()
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
}

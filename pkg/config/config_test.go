package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/retail-pos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "retail-pos-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.DB.MigrationsAuto)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL_MINUTES", "15")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("MIGRATIONS_AUTO", "true")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Idempotency.TTL)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.DB.MigrationsAuto)
}

func TestLoad_ProductionSinSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss", DBName: "retail", SSLMode: "disable"}

	assert.Equal(t, "postgres://pos:p%40ss@db:5432/retail?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/amortization-engine/amortization"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "amortize.db", cfg.Database.Path)
	assert.Equal(t, amortization.Monthly, cfg.Defaults.Frequency)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
  read_timeout: 5s
database:
  path: /tmp/loans.db
  retention: 720h
cache:
  redis_addr: localhost:6379
  ttl: 2m
defaults:
  frequency: quarterly
  interest_mode: 1
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("AMORTIZE_DB", ":memory:")
	t.Setenv("AMORTIZE_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 720*time.Hour, cfg.Database.Retention)
	assert.Equal(t, time.Hour, cfg.Database.PruneInterval)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, amortization.Quarterly, cfg.Defaults.Frequency)
	assert.Equal(t, amortization.InterestSimple, cfg.Defaults.InterestMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("AMORTIZE_PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("AMORTIZE_PORT", "70000")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_UnknownFrequency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  frequency: hourly\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

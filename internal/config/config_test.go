package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  env: production
database:
  url: postgres://file
jwt:
  secret: from-file
workers:
  status_refresh_interval: 1h
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JWT_TTL_MINUTES", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.JWT.TTL)
	assert.Equal(t, time.Hour, cfg.Workers.StatusRefreshInterval)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 24*60, cfg.JWT.TTL)
	assert.Equal(t, "development", cfg.Server.Env)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.Error(t, cfg.Validate(), "missing database url")

	cfg.Database.DSN = "postgres://x"
	assert.Error(t, cfg.Validate(), "missing jwt secret")

	cfg.JWT.Secret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "mysql"
	cfg.Email.Enabled = true
	assert.Error(t, cfg.Validate(), "email enabled without host")
}

func TestLoad_InvalidIntEnv(t *testing.T) {
	path := writeConfig(t, "database:\n  url: x\njwt:\n  secret: y\n")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetConfig_ReturnsLoadedConfig(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig = &Config{}
	AppConfig.Server.Port = 9090
	assert.Same(t, AppConfig, GetConfig())
	assert.Equal(t, 9090, GetConfig().Server.Port)
}

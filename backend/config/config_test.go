package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  jwt:
    secret: s3cret
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 9400, cfg.Port)
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "s3cret", cfg.JWT.Secret)
	require.Equal(t, 24, cfg.JWT.ExpHours)
	require.Equal(t, 10, cfg.PasswordCost)
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, 300, cfg.Redis.TTLSec)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
backend:
  host: 0.0.0.0
  port: 8080
  db:
    driver: MySQL
    name: users
  redis:
    addr: localhost:6379
  jwt:
    secret: abc
    exp_hours: 2
  password:
    cost: 12
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "mysql", cfg.DB.Driver)
	require.Equal(t, "users", cfg.DB.Name)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 2, cfg.JWT.ExpHours)
	require.Equal(t, 12, cfg.PasswordCost)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
backend:
  port: 8080
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_SecretFromEnv(t *testing.T) {
	t.Setenv("ACCOUNT_BACKEND_JWT_SECRET", "from-env")
	path := writeConfig(t, `
backend:
  port: 8080
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoad_UnknownDriver(t *testing.T) {
	path := writeConfig(t, `
backend:
  db:
    driver: oracle
  jwt:
    secret: x
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

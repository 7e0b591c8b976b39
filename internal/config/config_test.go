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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: db.internal
  name: scheduling
auth:
  jwt_secret: s3cret
cache:
  ttl: 30s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "scheduling", cfg.Database.Name)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.True(t, cfg.Auth.Enabled)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
auth:
  jwt_secret: from-file
`)
	t.Setenv("HOSPITAL_DATABASE_HOST", "db.from.env")
	t.Setenv("HOSPITAL_DATABASE_PASSWORD", "pw")
	t.Setenv("HOSPITAL_AUTH_JWT_SECRET", "from-env")
	t.Setenv("HOSPITAL_STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "db.from.env", cfg.Database.Host)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
auth:
  enabled: true
  jwt_secret: ""
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "jwt_secret")

	path = writeConfig(t, `
auth:
  enabled: false
storage:
  driver: mongo
`)
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
}

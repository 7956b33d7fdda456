package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8083", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "cafes.db", cfg.Database.DSN)
	assert.Equal(t, "secret", cfg.Auth.APIKey)
	assert.False(t, cfg.Cafe.StrictBooleans)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=localhost dbname=cafe")
	t.Setenv("STRICT_BOOLEANS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.False(t, cfg.IsDebug())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=cafe", cfg.Database.DSN)
	assert.True(t, cfg.Cafe.StrictBooleans)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cafe.yaml")
	yml := "server:\n  port: \"7000\"\nauth:\n  api_key: from-file\ndatabase:\n  dsn: file.db\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("DATABASE_DSN", "env.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Auth.APIKey)
	assert.Equal(t, "env.db", cfg.Database.DSN)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := defaultConfig()
		c.Auth.APIKey = "k"
		return c
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.Database.DSN = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Server.Mode = "production"
	assert.Error(t, c.Validate())

	c = base()
	c.Auth.APIKey = ""
	c.Auth.APIKeyHash = "$2a$04$abcdefghijklmnopqrstuv"
	assert.NoError(t, c.Validate())
}

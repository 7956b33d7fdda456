// Package config loads runtime settings from struct defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Cafe     CafeConfig     `koanf:"cafe"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Port           string   `koanf:"port"`
	Mode           string   `koanf:"mode"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"`
	DSN      string `koanf:"dsn"`
	LogLevel string `koanf:"log_level"`
}

// AuthConfig holds the shared secret required by the delete endpoint.
// APIKeyHash, when set, is a bcrypt hash and takes precedence over APIKey.
type AuthConfig struct {
	APIKey     string `koanf:"api_key"`
	APIKeyHash string `koanf:"api_key_hash"`
}

type CafeConfig struct {
	// StrictBooleans switches form booleans from "any non-empty value is
	// true" to explicit parsing of true/1/yes/on.
	StrictBooleans bool `koanf:"strict_booleans"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8083",
			Mode:           "debug",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "cafes.db",
			LogLevel: "warn",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var envMappings = map[string]string{
	"port":            "server.port",
	"gin_mode":        "server.mode",
	"allowed_origins": "server.allowed_origins",
	"db_driver":       "database.driver",
	"database_dsn":    "database.dsn",
	"db_log_level":    "database.log_level",
	"api_key":         "auth.api_key",
	"api_key_hash":    "auth.api_key_hash",
	"strict_booleans": "cafe.strict_booleans",
	"log_level":       "logging.level",
	"log_format":      "logging.format",
}

// envTransformFunc maps known variables to koanf paths and drops the rest,
// so unrelated environment does not leak into the config tree.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads .env (if present), then defaults, YAML file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Origins arrive from the environment as one comma separated string.
	if origins, ok := k.Get("server.allowed_origins").(string); ok {
		if err := k.Set("server.allowed_origins", splitList(origins)); err != nil {
			return nil, fmt.Errorf("failed to parse allowed origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
		if cfg.IsDebug() {
			cfg.Logging.Format = "console"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDebug() bool {
	return c.Server.Mode != "release"
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return errors.New("server.allowed_origins must list at least one origin")
	}
	if c.Auth.APIKey == "" && c.Auth.APIKeyHash == "" {
		return errors.New("API_KEY or API_KEY_HASH must be set")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	return nil
}

// Package config loads and finalizes the service configuration from TOML
// files, .env files, and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/verdict/pkg/auth"
	"github.com/JaimeStill/verdict/pkg/database"
	"github.com/JaimeStill/verdict/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVerdictEnv             = "VERDICT_ENV"
	EnvVerdictShutdownTimeout = "VERDICT_SHUTDOWN_TIMEOUT"
	EnvVerdictVersion         = "VERDICT_VERSION"
)

// DotenvFiles are loaded in order before environment overrides are read.
// Variables already present in the environment are never replaced.
var DotenvFiles = []string{".env.local", ".env"}

var databaseEnv = &database.Env{
	DSN:             "VERDICT_DB_DSN",
	Host:            "VERDICT_DB_HOST",
	Port:            "VERDICT_DB_PORT",
	Name:            "VERDICT_DB_NAME",
	User:            "VERDICT_DB_USER",
	Password:        "VERDICT_DB_PASSWORD",
	SSLMode:         "VERDICT_DB_SSL_MODE",
	MaxOpenConns:    "VERDICT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VERDICT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VERDICT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VERDICT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "VERDICT_STORAGE_CONTAINER_NAME",
	ConnectionString: "VERDICT_STORAGE_CONNECTION_STRING",
	ServiceURL:       "VERDICT_STORAGE_SERVICE_URL",
}

var authEnv = &auth.Env{
	Enabled:  "VERDICT_AUTH_ENABLED",
	Issuer:   "VERDICT_AUTH_ISSUER",
	ClientID: "VERDICT_AUTH_CLIENT_ID",
	JWKSURL:  "VERDICT_AUTH_JWKS_URL",
	DevUser:  "VERDICT_AUTH_DEV_USER",
}

// Config is the root configuration for the verdict service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Analyst         AnalystConfig   `toml:"analyst"`
	Auth            auth.Config     `toml:"auth"`
	Retention       RetentionConfig `toml:"retention"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the VERDICT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVerdictEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadAnalyst reads the same sources as Load but finalizes only the analyst
// and logging sections, for tools that call the model without the database
// or blob storage.
func LoadAnalyst() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Logging.Finalize(cfg.Env()); err != nil {
		return nil, fmt.Errorf("finalize config: logging: %w", err)
	}
	if err := cfg.Analyst.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: analyst: %w", err)
	}

	return cfg, nil
}

// LoadDatabase finalizes only the logging and database sections, for the
// migration tool.
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Logging.Finalize(cfg.Env()); err != nil {
		return nil, fmt.Errorf("finalize config: logging: %w", err)
	}
	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize config: database: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Analyst.Merge(&overlay.Analyst)
	c.Auth.Merge(&overlay.Auth)
	c.Retention.Merge(&overlay.Retention)
	c.Logging.Merge(&overlay.Logging)
}

func read() (*Config, error) {
	loadDotenv()

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Analyst.Finalize(); err != nil {
		return fmt.Errorf("analyst: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Retention.Finalize(); err != nil {
		return fmt.Errorf("retention: %w", err)
	}
	if err := c.Logging.Finalize(c.Env()); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVerdictShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVerdictVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func loadDotenv() {
	for _, path := range DotenvFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// malformed files are skipped; config validation reports what is missing
		_ = godotenv.Load(path)
	}
}

func overlayPath() string {
	if env := os.Getenv(EnvVerdictEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

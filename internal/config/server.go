package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "VERDICT_SERVER_HOST"
	EnvServerPort            = "VERDICT_SERVER_PORT"
	EnvServerReadTimeout     = "VERDICT_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "VERDICT_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout     = "VERDICT_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout = "VERDICT_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP server parameters. WriteTimeout bounds a whole
// analyze request, including every model fallback attempt.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	IdleTimeout     string `toml:"idle_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, v := range c.durations(overlay) {
		if v != "" {
			*dst = v
		}
	}
}

// durations pairs each duration field of c with the same field of other.
func (c *ServerConfig) durations(other *ServerConfig) map[*string]string {
	return map[*string]string{
		&c.ReadTimeout:     other.ReadTimeout,
		&c.WriteTimeout:    other.WriteTimeout,
		&c.IdleTimeout:     other.IdleTimeout,
		&c.ShutdownTimeout: other.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	c.Merge(&ServerConfig{
		Host:            or(c.Host, "0.0.0.0"),
		Port:            or(c.Port, 8080),
		ReadTimeout:     or(c.ReadTimeout, "1m"),
		WriteTimeout:    or(c.WriteTimeout, "15m"),
		IdleTimeout:     or(c.IdleTimeout, "2m"),
		ShutdownTimeout: or(c.ShutdownTimeout, "30s"),
	})
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	c.Merge(&ServerConfig{
		ReadTimeout:     os.Getenv(EnvServerReadTimeout),
		WriteTimeout:    os.Getenv(EnvServerWriteTimeout),
		IdleTimeout:     os.Getenv(EnvServerIdleTimeout),
		ShutdownTimeout: os.Getenv(EnvServerShutdownTimeout),
	})
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, v := range map[string]string{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"idle_timeout":     c.IdleTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// or returns v unless it is the zero value, in which case def.
func or[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

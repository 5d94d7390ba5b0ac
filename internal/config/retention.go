package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvRetentionSchedule = "VERDICT_RETENTION_SCHEDULE"
	EnvRetentionMaxAge   = "VERDICT_RETENTION_MAX_AGE"
)

// RetentionConfig schedules the purge of old analyses.
// An empty MaxAge disables the purge.
type RetentionConfig struct {
	Schedule string `toml:"schedule"`
	MaxAge   string `toml:"max_age"`
}

// Enabled reports whether a purge should be scheduled.
func (c *RetentionConfig) Enabled() bool {
	return c.MaxAge != ""
}

// MaxAgeDuration returns MaxAge as a time.Duration.
func (c *RetentionConfig) MaxAgeDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxAge)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RetentionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RetentionConfig) Merge(overlay *RetentionConfig) {
	if overlay.Schedule != "" {
		c.Schedule = overlay.Schedule
	}
	if overlay.MaxAge != "" {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *RetentionConfig) loadDefaults() {
	if c.Schedule == "" {
		c.Schedule = "@daily"
	}
}

func (c *RetentionConfig) loadEnv() {
	if v := os.Getenv(EnvRetentionSchedule); v != "" {
		c.Schedule = v
	}
	if v := os.Getenv(EnvRetentionMaxAge); v != "" {
		c.MaxAge = v
	}
}

func (c *RetentionConfig) validate() error {
	if !c.Enabled() {
		return nil
	}
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil {
		return fmt.Errorf("invalid max_age: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("max_age must be positive")
	}
	return nil
}

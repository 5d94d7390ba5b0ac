// Package pagination normalizes page requests and shapes paged responses
// for the history endpoints.
package pagination

import (
	"cmp"
	"errors"
	"os"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Config bounds the page sizes clients may request.
type Config struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

func (e *ConfigEnv) load() *Config {
	return &Config{
		DefaultPageSize: atoi(e.DefaultPageSize),
		MaxPageSize:     atoi(e.MaxPageSize),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.DefaultPageSize = cmp.Or(c.DefaultPageSize, defaultPageSize)
	c.MaxPageSize = cmp.Or(c.MaxPageSize, maxPageSize)
	if env != nil {
		c.Merge(env.load())
	}

	switch {
	case c.DefaultPageSize < 1:
		return errors.New("default_page_size must be positive")
	case c.MaxPageSize < 1:
		return errors.New("max_page_size must be positive")
	case c.DefaultPageSize > c.MaxPageSize:
		return errors.New("default_page_size cannot exceed max_page_size")
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	c.DefaultPageSize = cmp.Or(overlay.DefaultPageSize, c.DefaultPageSize)
	c.MaxPageSize = cmp.Or(overlay.MaxPageSize, c.MaxPageSize)
}

// atoi reads an integer variable, returning 0 when name is empty, unset, or
// not a number.
func atoi(name string) int {
	if name == "" {
		return 0
	}
	n, _ := strconv.Atoi(os.Getenv(name))
	return n
}

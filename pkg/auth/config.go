package auth

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds OpenID Connect token verification settings.
// When Enabled is false, DevUser (if set) is attached to every request.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
	JWKSURL  string `toml:"jwks_url"`
	DevUser  string `toml:"dev_user"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled  string
	Issuer   string
	ClientID string
	JWKSURL  string
	DevUser  string
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.DevUser != "" {
		c.DevUser = overlay.DevUser
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.JWKSURL != "" {
		if v := os.Getenv(env.JWKSURL); v != "" {
			c.JWKSURL = v
		}
	}
	if env.DevUser != "" {
		if v := os.Getenv(env.DevUser); v != "" {
			c.DevUser = v
		}
	}
}

func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required when enabled")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when enabled")
	}
	if c.DevUser != "" {
		return fmt.Errorf("dev_user cannot be combined with enabled")
	}
	return nil
}

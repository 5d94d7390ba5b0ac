package openapi

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
)

const (
	defaultTitle       = "Verdict API"
	defaultDescription = "Pre- and post-publication review of social media posts with GO / HOLD / NO-GO decisions."
)

// Config holds document metadata. ServerURL is the externally visible
// origin, used when the service runs behind a proxy; when empty, servers
// are listed relative to the API base path.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv names the environment variables that override Config fields.
// Empty names are skipped.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.Title = cmp.Or(c.Title, defaultTitle)
	c.Description = cmp.Or(c.Description, defaultDescription)
	if env != nil {
		c.Merge(&Config{
			Title:       getenv(env.Title),
			Description: getenv(env.Description),
			ServerURL:   getenv(env.ServerURL),
		})
	}

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid openapi server_url %q", c.ServerURL)
		}
	}
	return nil
}

// Merge overwrites non-empty fields from overlay.
func (c *Config) Merge(overlay *Config) {
	c.Title = cmp.Or(overlay.Title, c.Title)
	c.Description = cmp.Or(overlay.Description, c.Description)
	c.ServerURL = cmp.Or(overlay.ServerURL, c.ServerURL)
}

// ServerPath resolves the server entry for an API mounted at basePath.
func (c *Config) ServerPath(basePath string) string {
	if c.ServerURL == "" {
		return basePath
	}
	u, err := url.JoinPath(c.ServerURL, basePath)
	if err != nil {
		return basePath
	}
	return u
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

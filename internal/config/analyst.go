package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/verdict/pkg/llm/anthropic"
	"github.com/JaimeStill/verdict/pkg/llm/gemini"
	"github.com/JaimeStill/verdict/pkg/llm/openai"
)

const (
	EnvAnalystProvider       = "VERDICT_ANALYST_PROVIDER"
	EnvAnalystAPIKey         = "VERDICT_ANALYST_API_KEY"
	EnvAnalystBaseURL        = "VERDICT_ANALYST_BASE_URL"
	EnvAnalystModels         = "VERDICT_ANALYST_MODELS"
	EnvAnalystAttemptTimeout = "VERDICT_ANALYST_ATTEMPT_TIMEOUT"
	EnvAnalystMaxTokens      = "VERDICT_ANALYST_MAX_TOKENS"
)

// ErrCredential indicates the analyst credential is missing or malformed.
var ErrCredential = errors.New("invalid credential")

type provider struct {
	keyEnv    string
	keyPrefix string
	models    []string
	console   string
}

var providers = map[string]provider{
	gemini.Name: {
		keyEnv:    "GEMINI_API_KEY",
		keyPrefix: "AIza",
		models:    gemini.DefaultModels,
		console:   "Google AI Studio (https://aistudio.google.com/)",
	},
	openai.Name: {
		keyEnv:    "OPENAI_API_KEY",
		keyPrefix: "sk-",
		models:    openai.DefaultModels,
		console:   "the OpenAI platform (https://platform.openai.com/api-keys)",
	},
	anthropic.Name: {
		keyEnv:    "ANTHROPIC_API_KEY",
		keyPrefix: "sk-ant-",
		models:    anthropic.DefaultModels,
		console:   "the Anthropic console (https://console.anthropic.com/)",
	},
}

// AnalystConfig configures the generative backend used for post analysis.
type AnalystConfig struct {
	Provider       string   `toml:"provider"`
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url"`
	Models         []string `toml:"models"`
	AttemptTimeout string   `toml:"attempt_timeout"`
	MaxTokens      int64    `toml:"max_tokens"`
}

// AttemptTimeoutDuration returns AttemptTimeout as a time.Duration.
func (c *AnalystConfig) AttemptTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.AttemptTimeout)
	return d
}

// KeyEnv returns the provider's conventional API key variable.
func (c *AnalystConfig) KeyEnv() string {
	return providers[c.Provider].keyEnv
}

// KeyPrefix returns the prefix the provider's keys are issued with.
func (c *AnalystConfig) KeyPrefix() string {
	return providers[c.Provider].keyPrefix
}

// Console describes where a new key for the provider is issued.
func (c *AnalystConfig) Console() string {
	return providers[c.Provider].console
}

// ValidateCredential reports a missing, empty, or malformed API key with
// remediation steps. It is checked before any model is called rather than
// at load so the service still starts and serves history without a key.
func (c *AnalystConfig) ValidateCredential() error {
	if c.APIKey == "" {
		return fmt.Errorf(
			"%w: neither %s nor %s is set\n\n"+
				"to resolve:\n"+
				"1. create a .env.local file in the working directory\n"+
				"2. add the key: %s=%s...\n"+
				"3. restart the service",
			ErrCredential, EnvAnalystAPIKey, c.KeyEnv(), c.KeyEnv(), c.KeyPrefix(),
		)
	}

	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: %s is empty; set a valid API key", ErrCredential, EnvAnalystAPIKey)
	}

	// compatible servers issue their own token formats
	if c.Provider == openai.Name && c.BaseURL != "" {
		return nil
	}

	if prefix := c.KeyPrefix(); !strings.HasPrefix(c.APIKey, prefix) {
		return fmt.Errorf(
			"%w: %s keys start with %q; the configured key does not. Issue a new key from %s",
			ErrCredential, c.Provider, prefix, c.Console(),
		)
	}

	return nil
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalystConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	c.loadProviderDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalystConfig) Merge(overlay *AnalystConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if len(overlay.Models) > 0 {
		c.Models = overlay.Models
	}
	if overlay.AttemptTimeout != "" {
		c.AttemptTimeout = overlay.AttemptTimeout
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
}

func (c *AnalystConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = gemini.Name
	}
	if c.AttemptTimeout == "" {
		c.AttemptTimeout = "2m"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 8192
	}
}

func (c *AnalystConfig) loadEnv() {
	if v := os.Getenv(EnvAnalystProvider); v != "" {
		c.Provider = v
	}
	if v, ok := os.LookupEnv(EnvAnalystAPIKey); ok {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAnalystBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAnalystModels); v != "" {
		c.Models = splitList(v)
	}
	if v := os.Getenv(EnvAnalystAttemptTimeout); v != "" {
		c.AttemptTimeout = v
	}
	if v := os.Getenv(EnvAnalystMaxTokens); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxTokens = n
		}
	}
}

// loadProviderDefaults runs after env so the provider is settled before its
// key variable and model list are consulted.
func (c *AnalystConfig) loadProviderDefaults() {
	p, ok := providers[c.Provider]
	if !ok {
		return
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(p.keyEnv)
	}
	if len(c.Models) == 0 {
		c.Models = slices.Clone(p.models)
	}
}

func (c *AnalystConfig) validate() error {
	if _, ok := providers[c.Provider]; !ok {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("models required")
	}
	d, err := time.ParseDuration(c.AttemptTimeout)
	if err != nil {
		return fmt.Errorf("invalid attempt_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("attempt_timeout must be positive")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

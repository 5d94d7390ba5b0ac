package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/verdict/pkg/formatting"
	"github.com/JaimeStill/verdict/pkg/middleware"
	"github.com/JaimeStill/verdict/pkg/openapi"
	"github.com/JaimeStill/verdict/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "VERDICT_CORS_ENABLED",
	Origins:          "VERDICT_CORS_ORIGINS",
	AllowedMethods:   "VERDICT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "VERDICT_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "VERDICT_CORS_EXPOSED_HEADERS",
	AllowCredentials: "VERDICT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "VERDICT_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "VERDICT_OPENAPI_TITLE",
	Description: "VERDICT_OPENAPI_DESCRIPTION",
	ServerURL:   "VERDICT_OPENAPI_SERVER_URL",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "VERDICT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "VERDICT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload, history, CORS, pagination, and
// OpenAPI document settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	HistoryLimit  int                   `toml:"history_limit"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the multipart limit for analysis submissions,
// which carry the post's image or video.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.HistoryLimit != 0 {
		c.HistoryLimit = overlay.HistoryLimit
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 50
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("VERDICT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("VERDICT_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv("VERDICT_API_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.HistoryLimit = n
		}
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/verdict/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "verdict"
user = "verdict"
password = "verdict"
ssl_mode = "disable"

[storage]
container_name = "analyses"
connection_string = "DefaultEndpointsProtocol=http;AccountName=verdictstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/verdictstore;"

[api]
base_path = "/api"
history_limit = 25

[api.pagination]
default_page_size = 25
max_page_size = 50

[analyst]
provider = "gemini"
api_key = "AIzaTestKey"
models = ["gemini-2.5-flash", "gemini-pro"]
attempt_timeout = "90s"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[analyst]
provider = "openai"
models = ["gpt-4o"]
`

const minimalConfig = `
[database]
name = "verdict"
user = "verdict"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

// unsetenv clears key for the duration of the test and restores it afterward.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "analyses" {
		t.Errorf("storage container: got %s, want analyses", cfg.Storage.ContainerName)
	}
	if cfg.API.HistoryLimit != 25 {
		t.Errorf("history_limit: got %d, want 25", cfg.API.HistoryLimit)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
	if cfg.Analyst.AttemptTimeoutDuration() != 90*time.Second {
		t.Errorf("attempt_timeout: got %v, want 90s", cfg.Analyst.AttemptTimeoutDuration())
	}
	if len(cfg.Analyst.Models) != 2 || cfg.Analyst.Models[1] != "gemini-pro" {
		t.Errorf("models: got %v", cfg.Analyst.Models)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("VERDICT_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Analyst.Provider != "openai" {
		t.Errorf("provider: got %s, want openai", cfg.Analyst.Provider)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("log format outside local: got %s, want text", cfg.Logging.Format)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("VERDICT_VERSION", "2.0.0")
	t.Setenv("VERDICT_SERVER_PORT", "3000")
	t.Setenv("VERDICT_ANALYST_MODELS", "gemini-1.5-pro, gemini-1.0-pro")
	t.Setenv("VERDICT_API_HISTORY_LIMIT", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if got := strings.Join(cfg.Analyst.Models, ","); got != "gemini-1.5-pro,gemini-1.0-pro" {
		t.Errorf("models: got %s", got)
	}
	if cfg.API.HistoryLimit != 10 {
		t.Errorf("history_limit: got %d, want 10", cfg.API.HistoryLimit)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("VERDICT_DB_NAME", "testdb")
	t.Setenv("VERDICT_DB_USER", "testuser")
	t.Setenv("VERDICT_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Analyst.Provider != "gemini" {
		t.Errorf("provider default: got %s, want gemini", cfg.Analyst.Provider)
	}
	if cfg.API.HistoryLimit != 50 {
		t.Errorf("history_limit default: got %d, want 50", cfg.API.HistoryLimit)
	}
	if cfg.Logging.Format != "tint" {
		t.Errorf("log format default for local: got %s, want tint", cfg.Logging.Format)
	}
	if cfg.Retention.Enabled() {
		t.Error("retention should be disabled without max_age")
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	writeConfig(t, dir, ".env.local", "VERDICT_ANALYST_API_KEY=AIzaFromDotenv\n")
	chdir(t, dir)

	unsetenv(t, "VERDICT_ANALYST_API_KEY")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Analyst.APIKey != "AIzaFromDotenv" {
		t.Errorf("api key: got %q, want AIzaFromDotenv", cfg.Analyst.APIKey)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadAnalystSkipsInfrastructure(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	unsetenv(t, "VERDICT_DB_NAME")
	unsetenv(t, "VERDICT_STORAGE_CONNECTION_STRING")

	cfg, err := config.LoadAnalyst()
	if err != nil {
		t.Fatalf("LoadAnalyst failed: %v", err)
	}
	if len(cfg.Analyst.Models) == 0 {
		t.Error("expected provider default models")
	}

	if _, err := config.Load(); err == nil {
		t.Error("Load should require database settings")
	}
}

func TestLoadDatabaseSkipsStorage(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	unsetenv(t, "VERDICT_STORAGE_CONNECTION_STRING")
	t.Setenv("VERDICT_DB_DSN", "postgres://verdict@db:5432/verdict?sslmode=disable")

	cfg, err := config.LoadDatabase()
	if err != nil {
		t.Fatalf("LoadDatabase failed: %v", err)
	}
	if got := cfg.Database.Dsn(); got != "postgres://verdict@db:5432/verdict?sslmode=disable" {
		t.Errorf("dsn: got %s", got)
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}
	unsetenv(t, "VERDICT_ENV")

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv("VERDICT_ENV", "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutAndAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
	if d := cfg.Server.IdleTimeoutDuration(); d != 2*time.Minute {
		t.Errorf("idle timeout: got %v, want 2m", d)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{"invalid port", "[server]\nport = 99999\n", "invalid port"},
		{"unknown provider", "[analyst]\nprovider = \"mistral\"\n", "unknown provider"},
		{"bad attempt timeout", "[analyst]\nattempt_timeout = \"soon\"\n", "invalid attempt_timeout"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "invalid format"},
		{"bad retention age", "[retention]\nmax_age = \"forever\"\n", "invalid max_age"},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"\n", "invalid max_upload_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", minimalConfig+"\n"+tt.extra)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

package infrastructure

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/JaimeStill/verdict/internal/config"
)

// NewLogger builds the service logger for the configured format and level.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	level := cfg.SlogLevel()

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case "tint":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, scheduling,
// token verification) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/pkg/auth"
	"github.com/JaimeStill/verdict/pkg/database"
	"github.com/JaimeStill/verdict/pkg/lifecycle"
	"github.com/JaimeStill/verdict/pkg/scheduler"
	"github.com/JaimeStill/verdict/pkg/storage"
)

// jobTimeout bounds a single scheduled run.
const jobTimeout = 30 * time.Minute

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, media storage, and scheduled jobs.
type Infrastructure struct {
	Analyst   config.AnalystConfig
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Scheduler scheduler.System
	// Verifier is nil when token verification is disabled.
	Verifier auth.Verifier
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, os.Stderr)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	verifier, err := newVerifier(lc.Context(), &cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	return &Infrastructure{
		Analyst:   cfg.Analyst,
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Scheduler: scheduler.New(jobTimeout, logger),
		Verifier:  verifier,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database, storage, and scheduler hooks are registered for startup and
// shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Scheduler.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}
	return nil
}

func newVerifier(ctx context.Context, cfg *auth.Config) (auth.Verifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return auth.NewOIDC(ctx, cfg)
}

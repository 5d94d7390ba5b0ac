package api

import (
	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/internal/infrastructure"
	"github.com/JaimeStill/verdict/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination   pagination.Config
	HistoryLimit int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Analyst:   cfg.Analyst,
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Scheduler: infra.Scheduler,
			Verifier:  infra.Verifier,
		},
		Pagination:   cfg.API.Pagination,
		HistoryLimit: cfg.API.HistoryLimit,
	}
}

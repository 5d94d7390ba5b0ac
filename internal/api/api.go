// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/internal/infrastructure"
	"github.com/JaimeStill/verdict/pkg/auth"
	"github.com/JaimeStill/verdict/pkg/middleware"
	"github.com/JaimeStill/verdict/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware,
// and schedules the retention purge when one is configured.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	if err := scheduleRetention(&cfg.Retention, runtime, domain); err != nil {
		return nil, err
	}

	spec, err := specHandlerBytes(cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth.Middleware(&cfg.Auth, runtime.Verifier, runtime.Logger))

	return m, nil
}

package main

import (
	"net/http"

	"github.com/JaimeStill/verdict/internal/api"
	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/internal/infrastructure"
	"github.com/JaimeStill/verdict/pkg/handlers"
	"github.com/JaimeStill/verdict/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ready, checks := infra.Lifecycle.Status()
		if !ready {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not ready",
				"checks": checks,
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ready",
			"checks": checks,
			"jobs":   infra.Scheduler.Jobs(),
		})
	})

	return router
}

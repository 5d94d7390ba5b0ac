package main

import (
	"time"

	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"modules", router.Prefixes(),
		"auth", cfg.Auth.Enabled,
		"models", cfg.Analyst.Models,
		"retention", cfg.Retention.MaxAge,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start brings up the infrastructure, then the listener. Readiness is
// reported once every startup hook has returned.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		ready, checks := s.infra.Lifecycle.Status()
		s.infra.Logger.Info("startup complete", "ready", ready, "checks", checks)
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}

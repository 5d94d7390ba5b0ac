package api

import (
	"fmt"

	"github.com/JaimeStill/verdict/internal/analyses"
	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/pkg/openapi"
)

// NewSpec builds the OpenAPI document for the API module.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.ServerPath(cfg.API.BasePath))
	spec.AddTag(analyses.Tag, "Analyze posts and browse saved analyses")

	if cfg.Auth.Enabled {
		spec.UseBearerAuth("OIDC access token. Analyze accepts anonymous requests; every other operation requires a token.")
	}

	spec.Components.AddSchemas(analyses.Schemas())
	for path, item := range analyses.Paths() {
		spec.Paths[path] = item
	}

	return spec
}

func specHandlerBytes(cfg *config.Config) ([]byte, error) {
	data, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}

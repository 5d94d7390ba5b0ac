package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/pkg/openapi"
	"github.com/JaimeStill/verdict/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	spec []byte,
) {
	routes.Register(
		mux,
		domain.Analyses.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		routes.Group{
			Middleware: []func(http.Handler) http.Handler{cacheFor(5 * time.Minute)},
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(spec)},
			},
		},
	)
}

func cacheFor(d time.Duration) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(d.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}

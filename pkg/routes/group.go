package routes

import (
	"net/http"
	"slices"
)

// Group shares a prefix and middleware across its routes. Children inherit
// the parent's prefix and middleware, which wraps outside their own.
type Group struct {
	Prefix     string
	Middleware []func(http.Handler) http.Handler
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		register(mux, "", nil, group)
	}
}

func register(mux *http.ServeMux, prefix string, inherited []func(http.Handler) http.Handler, g Group) {
	prefix += g.Prefix
	chain := append(slices.Clip(inherited), g.Middleware...)

	for _, route := range g.Routes {
		var h http.Handler = route.Handler
		for _, mw := range slices.Backward(chain) {
			h = mw(h)
		}
		mux.Handle(route.Method+" "+prefix+route.Pattern, h)
	}

	for _, child := range g.Children {
		register(mux, prefix, chain, child)
	}
}

// Package module mounts self-contained HTTP modules under single-level
// path prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/verdict/pkg/middleware"
)

// Module strips its prefix and delegates to an inner router wrapped in
// the module's middleware. Middleware must be added before the first
// request is served.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped with the module's middleware.
// The chain is built once.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to the inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, withPath(req, strings.TrimPrefix(req.URL.Path, m.prefix)))
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw middleware.Middleware) {
	m.middleware.Use(mw)
}

// withPath returns a shallow copy of req routed to path. Headers and body
// are shared with the original.
func withPath(req *http.Request, path string) *http.Request {
	if path == "" {
		path = "/"
	}
	u := *req.URL
	u.Path = path
	u.RawPath = ""

	out := *req
	out.URL = &u
	return &out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	if _, err := url.PathUnescape(prefix); err != nil {
		return fmt.Errorf("module prefix is not a valid path: %w", err)
	}
	return nil
}

// Package middleware provides the HTTP middleware shared by the service
// modules: request logging, panic recovery, and CORS.
package middleware

import (
	"net/http"
	"slices"
)

// Middleware wraps a handler.
type Middleware = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware. The first
// middleware added is the outermost.
type System interface {
	Use(mw Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack []Middleware

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw Middleware) {
	*s = append(*s, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(*s) {
		handler = mw(handler)
	}
	return handler
}

// Package routes declares method-qualified routes in prefix groups and
// registers them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Pattern is relative
// to the enclosing group and may use ServeMux wildcards such as {id}.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

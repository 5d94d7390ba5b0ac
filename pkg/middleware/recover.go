package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/verdict/pkg/handlers"
)

// Recover converts a handler panic into a 500 JSON response and logs the
// stack. http.ErrAbortHandler is re-raised so the server can drop the
// connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error("handler panic",
					"id", RequestID(r.Context()),
					"method", r.Method,
					"uri", r.URL.RequestURI(),
					"panic", v,
					"stack", string(debug.Stack()),
				)

				handlers.RespondJSON(w, http.StatusInternalServerError, handlers.ErrorBody{
					Error:     "internal server error",
					RequestID: RequestID(r.Context()),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

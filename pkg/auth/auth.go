// Package auth resolves the calling user from a bearer ID token and carries
// the user identifier through the request context.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/verdict/pkg/handlers"
)

var (
	// ErrUnauthorized indicates the operation requires an authenticated user.
	ErrUnauthorized = errors.New("authentication required")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Verifier validates a raw bearer token and returns the user identifier.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (string, error)
}

type userKey struct{}

// WithUser returns a context carrying the user identifier.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the user identifier, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}

// Middleware attaches the calling user to the request context.
// Requests without a bearer token pass through anonymously; requests with a
// token that fails verification are rejected with 401. With verification
// disabled, cfg.DevUser (if set) is attached to every request.
func Middleware(cfg *Config, verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || verifier == nil {
				if cfg.DevUser != "" {
					r = r.WithContext(WithUser(r.Context(), cfg.DevUser))
				}
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

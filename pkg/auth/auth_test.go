package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/verdict/pkg/auth"
)

type mockVerifier struct {
	verifyFn func(ctx context.Context, raw string) (string, error)
}

func (m *mockVerifier) Verify(ctx context.Context, raw string) (string, error) {
	return m.verifyFn(ctx, raw)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := auth.UserFromContext(r.Context()); ok {
			w.Write([]byte(id))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestMiddleware(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(_ context.Context, raw string) (string, error) {
			if raw == "good" {
				return "user-1", nil
			}
			return "", auth.ErrInvalidToken
		},
	}

	tests := []struct {
		name       string
		cfg        auth.Config
		header     string
		wantStatus int
		wantBody   string
	}{
		{"enabled with valid token", auth.Config{Enabled: true}, "Bearer good", http.StatusOK, "user-1"},
		{"enabled with lowercase scheme", auth.Config{Enabled: true}, "bearer good", http.StatusOK, "user-1"},
		{"enabled without token", auth.Config{Enabled: true}, "", http.StatusOK, "anonymous"},
		{"enabled with basic scheme", auth.Config{Enabled: true}, "Basic abc", http.StatusOK, "anonymous"},
		{"enabled with invalid token", auth.Config{Enabled: true}, "Bearer bad", http.StatusUnauthorized, ""},
		{"disabled with dev user", auth.Config{DevUser: "dev"}, "Bearer bad", http.StatusOK, "dev"},
		{"disabled without dev user", auth.Config{}, "", http.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			h := auth.Middleware(&cfg, verifier, discard())(echoUser())

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	if _, ok := auth.UserFromContext(context.Background()); ok {
		t.Error("expected no user on empty context")
	}
	if _, ok := auth.UserFromContext(auth.WithUser(context.Background(), "")); ok {
		t.Error("expected empty user to be treated as absent")
	}

	id, ok := auth.UserFromContext(auth.WithUser(context.Background(), "u"))
	if !ok || id != "u" {
		t.Errorf("UserFromContext = (%q, %v), want (u, true)", id, ok)
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     auth.Config
		wantErr bool
	}{
		{"disabled", auth.Config{}, false},
		{"enabled complete", auth.Config{Enabled: true, Issuer: "https://id.example.com", ClientID: "verdict"}, false},
		{"enabled missing issuer", auth.Config{Enabled: true, ClientID: "verdict"}, true},
		{"enabled missing client", auth.Config{Enabled: true, Issuer: "https://id.example.com"}, true},
		{"enabled with dev user", auth.Config{Enabled: true, Issuer: "i", ClientID: "c", DevUser: "dev"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestErrorsDistinct(t *testing.T) {
	if errors.Is(auth.ErrInvalidToken, auth.ErrUnauthorized) {
		t.Error("ErrInvalidToken should not match ErrUnauthorized")
	}
}

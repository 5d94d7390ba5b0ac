package routes_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/verdict/pkg/routes"
)

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	echo := func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s", r.Method, r.PathValue("id"))
	}

	routes.Register(mux,
		routes.Group{
			Prefix: "/analyses",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: echo},
				{Method: "GET", Pattern: "/{id}", Handler: echo},
				{Method: "DELETE", Pattern: "/{id}", Handler: echo},
			},
		},
		routes.Group{
			Prefix: "/admin",
			Children: []routes.Group{
				{Prefix: "/jobs", Routes: []routes.Route{{Method: "POST", Pattern: "/{id}", Handler: echo}}},
			},
		},
	)

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"GET", "/analyses", http.StatusOK, "GET "},
		{"GET", "/analyses/42", http.StatusOK, "GET 42"},
		{"DELETE", "/analyses/42", http.StatusOK, "DELETE 42"},
		{"POST", "/admin/jobs/retention", http.StatusOK, "POST retention"},
		{"PUT", "/analyses/42", http.StatusMethodNotAllowed, ""},
		{"GET", "/admin", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body: got %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestGroupMiddleware(t *testing.T) {
	mux := http.NewServeMux()

	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("X-Chain", name)
				next.ServeHTTP(w, r)
			})
		}
	}
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	routes.Register(mux, routes.Group{
		Prefix:     "/analyses",
		Middleware: []func(http.Handler) http.Handler{tag("outer")},
		Routes:     []routes.Route{{Method: "GET", Pattern: "", Handler: ok}},
		Children: []routes.Group{
			{
				Prefix:     "/{id}",
				Middleware: []func(http.Handler) http.Handler{tag("inner")},
				Routes:     []routes.Route{{Method: "GET", Pattern: "/media/{kind}", Handler: ok}},
			},
		},
	})

	tests := []struct {
		path string
		want []string
	}{
		{"/analyses", []string{"outer"}},
		{"/analyses/42/media/image", []string{"outer", "inner"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			got := rec.Header().Values("X-Chain")
			if len(got) != len(tt.want) {
				t.Fatalf("chain: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chain: got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

package analyses_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/JaimeStill/verdict/internal/analyses"
	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/pkg/auth"
	"github.com/JaimeStill/verdict/pkg/lifecycle"
	"github.com/JaimeStill/verdict/pkg/pagination"
	"github.com/JaimeStill/verdict/pkg/repository"
	"github.com/JaimeStill/verdict/pkg/storage"
)

type analyzerFunc func(ctx context.Context, in analyst.Input) (*analyst.Outcome, error)

func (f analyzerFunc) Analyze(ctx context.Context, in analyst.Input) (*analyst.Outcome, error) {
	return f(ctx, in)
}

type fakeStorage struct {
	mu        sync.Mutex
	uploadErr error
	uploaded  []string
	deleted   []string
}

func (s *fakeStorage) Start(*lifecycle.Coordinator) error { return nil }

func (s *fakeStorage) Ready() bool { return true }

func (s *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = append(s.uploaded, key)
	return s.uploadErr
}

func (s *fakeStorage) Download(context.Context, string) (*storage.Blob, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func goOutcome() *analyst.Outcome {
	return &analyst.Outcome{
		Result:   &analyst.Result{Decision: analyst.Decision{Decision: analyst.VerdictGo}},
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
	}
}

func newTestSystem(store storage.System, analyzer analyses.Analyzer) analyses.System {
	return analyses.New(
		nil,
		store,
		analyzer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		50,
	)
}

func TestAnalyzeAnonymousIsNotSaved(t *testing.T) {
	store := &fakeStorage{}
	sys := newTestSystem(store, analyzerFunc(func(context.Context, analyst.Input) (*analyst.Outcome, error) {
		return goOutcome(), nil
	}))

	out, err := sys.Analyze(context.Background(), "", analyst.Input{
		Text:  "hello",
		Image: &analyst.Media{Data: []byte{0x1}, MIMEType: "image/png"},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if out.Saved || out.ID != nil {
		t.Errorf("saved = %v, id = %v; want unsaved", out.Saved, out.ID)
	}
	if out.SaveError != "" {
		t.Errorf("save error = %q, want empty", out.SaveError)
	}
	if len(store.uploaded) != 0 {
		t.Errorf("uploaded = %v, want none", store.uploaded)
	}
}

func TestAnalyzeSaveFailureIsReported(t *testing.T) {
	store := &fakeStorage{uploadErr: errors.New("container unavailable")}
	sys := newTestSystem(store, analyzerFunc(func(context.Context, analyst.Input) (*analyst.Outcome, error) {
		return goOutcome(), nil
	}))

	out, err := sys.Analyze(context.Background(), "user-1", analyst.Input{
		Text:  "hello",
		Image: &analyst.Media{Data: []byte{0x1}, MIMEType: "image/png"},
		Video: &analyst.Media{Data: []byte{0x2}, MIMEType: "video/mp4"},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v, want result despite save failure", err)
	}
	if out.Result == nil || out.Result.Decision.Decision != analyst.VerdictGo {
		t.Errorf("result = %+v, want GO", out.Result)
	}
	if out.Saved {
		t.Error("saved = true, want false")
	}
	if out.SaveError == "" {
		t.Error("save error is empty")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.uploaded) != 2 {
		t.Errorf("uploads = %v, want image and video", store.uploaded)
	}
	if len(store.deleted) != 2 {
		t.Errorf("compensating deletes = %v, want 2", store.deleted)
	}
}

func TestAnalyzeErrorPropagates(t *testing.T) {
	store := &fakeStorage{}
	sys := newTestSystem(store, analyzerFunc(func(context.Context, analyst.Input) (*analyst.Outcome, error) {
		return nil, analyst.ErrModelsExhausted
	}))

	_, err := sys.Analyze(context.Background(), "user-1", analyst.Input{Text: "hello"})
	if !errors.Is(err, analyst.ErrModelsExhausted) {
		t.Errorf("Analyze() error = %v, want ErrModelsExhausted", err)
	}
}

func TestSaveRequiresUser(t *testing.T) {
	sys := newTestSystem(&fakeStorage{}, nil)

	_, err := sys.Save(context.Background(), analyses.SaveCommand{Outcome: goOutcome()})
	if !errors.Is(err, analyses.ErrInvalidForm) {
		t.Errorf("Save() error = %v, want ErrInvalidForm", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", analyses.ErrNotFound, http.StatusNotFound},
		{"media not found", analyses.ErrMediaNotFound, http.StatusNotFound},
		{"blob not found", storage.ErrNotFound, http.StatusNotFound},
		{"duplicate", analyses.ErrDuplicate, http.StatusConflict},
		{"too large", analyses.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid form", analyses.ErrInvalidForm, http.StatusBadRequest},
		{"constraint", fmt.Errorf("%w: analyses_mode_check", repository.ErrConstraint), http.StatusBadRequest},
		{"unauthorized", auth.ErrUnauthorized, http.StatusUnauthorized},
		{"analyst input", analyst.ErrInvalidInput, http.StatusBadRequest},
		{"analyst config", analyst.ErrConfiguration, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyses.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

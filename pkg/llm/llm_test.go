package llm_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JaimeStill/verdict/pkg/llm"
)

func TestPartKinds(t *testing.T) {
	tests := []struct {
		name      string
		part      llm.Part
		wantText  bool
		wantImage bool
	}{
		{"text", llm.Text("hello"), true, false},
		{"image", llm.Blob([]byte{0x1}, "image/png"), false, true},
		{"video", llm.Blob([]byte{0x1}, "video/mp4"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.part.IsText(); got != tt.wantText {
				t.Errorf("IsText() = %v, want %v", got, tt.wantText)
			}
			if got := tt.part.IsImage(); got != tt.wantImage {
				t.Errorf("IsImage() = %v, want %v", got, tt.wantImage)
			}
		})
	}
}

func TestPartDataURI(t *testing.T) {
	p := llm.Blob([]byte("abc"), "image/png")

	if got, want := p.DataURI(), "data:image/png;base64,YWJj"; got != want {
		t.Errorf("DataURI() = %q, want %q", got, want)
	}
}

func TestStatusError(t *testing.T) {
	inner := errors.New("model not found")
	err := fmt.Errorf("attempt: %w", &llm.StatusError{
		Backend:    "gemini",
		Model:      "gemini-pro",
		StatusCode: 404,
		Err:        inner,
	})

	if got := llm.StatusCode(err); got != 404 {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to unwrap to inner")
	}
	if !strings.Contains(err.Error(), "status 404: model not found") {
		t.Errorf("Error() = %q, missing status and message", err.Error())
	}
	if got := llm.StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("StatusCode(plain) = %d, want 0", got)
	}
}

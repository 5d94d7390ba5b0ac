// Package llm defines the generative backend contract used by the analyst:
// a Backend opens Model handles by identifier and a Model turns an ordered
// list of text and inline-media parts into raw response text.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSystemInstructionUnsupported is returned by Backend.Model when the
	// model cannot accept a dedicated system-role instruction. Callers retry
	// with a plain handle.
	ErrSystemInstructionUnsupported = errors.New("system instruction not supported")
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrUnsupportedPart indicates a part the backend cannot transmit.
	ErrUnsupportedPart = errors.New("unsupported content part")
)

// Part is one element of a multi-part prompt. A Part with Data is an inline
// media block; otherwise it is plain text.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// Text creates a plain text part.
func Text(s string) Part {
	return Part{Text: s}
}

// Blob creates an inline media part.
func Blob(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// IsText reports whether the part carries text rather than media.
func (p Part) IsText() bool {
	return p.Data == nil
}

// IsImage reports whether the part is inline image data.
func (p Part) IsImage() bool {
	return !p.IsText() && strings.HasPrefix(p.MIMEType, "image/")
}

// Base64 returns the standard base64 encoding of the part data.
func (p Part) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// DataURI returns the part data as a data URI.
func (p Part) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MIMEType, p.Base64())
}

// Options configures a model handle.
type Options struct {
	SystemInstruction string
}

// Backend opens model handles for a single provider.
type Backend interface {
	// Name returns the provider name recorded with results.
	Name() string
	// Model opens a handle for the model identifier. It returns
	// ErrSystemInstructionUnsupported when opts requests a system
	// instruction the model does not accept.
	Model(id string, opts Options) (Model, error)
}

// Model generates a response for one prompt.
type Model interface {
	Generate(ctx context.Context, parts []Part) (string, error)
}

// StatusError carries the HTTP status a backend reported for a failed call.
type StatusError struct {
	Backend    string
	Model      string
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Backend, e.Model, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the backend status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

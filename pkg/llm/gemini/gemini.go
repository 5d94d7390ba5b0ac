// Package gemini implements llm.Backend on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/JaimeStill/verdict/pkg/llm"
)

// Name is the provider name for Gemini.
const Name = "gemini"

// DefaultModels is the fallback order, newest first.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-1.0-pro",
	"gemini-pro",
}

type backend struct {
	client *genai.Client
}

// New creates a Gemini backend authenticated with apiKey.
func New(ctx context.Context, apiKey string) (llm.Backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &backend{client: client}, nil
}

func (b *backend) Name() string {
	return Name
}

func (b *backend) Model(id string, opts llm.Options) (llm.Model, error) {
	m := &model{client: b.client, id: id}

	if opts.SystemInstruction != "" {
		if !SupportsSystemInstruction(id) {
			return nil, llm.ErrSystemInstructionUnsupported
		}
		m.config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser),
		}
	}

	return m, nil
}

// SupportsSystemInstruction reports whether the model accepts a
// system_instruction field. The 1.0 generation predates it.
func SupportsSystemInstruction(id string) bool {
	id = strings.TrimPrefix(id, "models/")
	return id != "gemini-pro" && !strings.HasPrefix(id, "gemini-1.0")
}

type model struct {
	client *genai.Client
	id     string
	config *genai.GenerateContentConfig
}

func (m *model) Generate(ctx context.Context, parts []llm.Part) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(convertParts(parts), genai.RoleUser),
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.id, contents, m.config)
	if err != nil {
		return "", wrapError(m.id, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s %s: %w", Name, m.id, llm.ErrEmptyResponse)
	}

	return text, nil
}

func convertParts(parts []llm.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsText() {
			out = append(out, genai.NewPartFromText(p.Text))
			continue
		}
		out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
	}
	return out
}

func wrapError(id string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{
			Backend:    Name,
			Model:      id,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return fmt.Errorf("%s %s: %w", Name, id, err)
}

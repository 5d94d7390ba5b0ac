// Package anthropic implements llm.Backend on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/JaimeStill/verdict/pkg/llm"
)

// Name is the provider name for Anthropic.
const Name = "anthropic"

// DefaultModels is the fallback order, newest first.
var DefaultModels = []string{
	"claude-sonnet-4-5",
	"claude-3-7-sonnet-latest",
	"claude-3-5-haiku-latest",
}

type backend struct {
	client    anthropic.Client
	maxTokens int64
}

// New creates an Anthropic backend. maxTokens is required by the API.
func New(apiKey string, maxTokens int64) llm.Backend {
	return &backend{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		maxTokens: maxTokens,
	}
}

func (b *backend) Name() string {
	return Name
}

func (b *backend) Model(id string, opts llm.Options) (llm.Model, error) {
	return &model{
		client:      b.client,
		id:          id,
		instruction: opts.SystemInstruction,
		maxTokens:   b.maxTokens,
	}, nil
}

type model struct {
	client      anthropic.Client
	id          string
	instruction string
	maxTokens   int64
}

func (m *model) Generate(ctx context.Context, parts []llm.Part) (string, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.IsText():
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		case p.IsImage():
			blocks = append(blocks, anthropic.NewImageBlockBase64(p.MIMEType, p.Base64()))
		default:
			return "", fmt.Errorf("%s %s: %w: %s", Name, m.id, llm.ErrUnsupportedPart, p.MIMEType)
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.id),
		MaxTokens: m.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}
	if m.instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: m.instruction}}
	}

	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapError(m.id, err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%s %s: %w", Name, m.id, llm.ErrEmptyResponse)
	}

	return sb.String(), nil
}

func wrapError(id string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &llm.StatusError{
			Backend:    Name,
			Model:      id,
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
	}
	return fmt.Errorf("%s %s: %w", Name, id, err)
}

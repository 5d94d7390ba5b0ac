// Package openai implements llm.Backend on the OpenAI chat completions API
// and compatible servers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/JaimeStill/verdict/pkg/llm"
)

// Name is the provider name for OpenAI.
const Name = "openai"

// DefaultModels is the fallback order, newest first.
var DefaultModels = []string{
	"gpt-4.1",
	"gpt-4.1-mini",
	"gpt-4o",
	"gpt-4o-mini",
}

type backend struct {
	client    openai.Client
	maxTokens int64
}

// New creates an OpenAI backend. An empty baseURL targets api.openai.com.
func New(apiKey, baseURL string, maxTokens int64) llm.Backend {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &backend{
		client:    openai.NewClient(opts...),
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
	client      openai.Client
	id          string
	instruction string
	maxTokens   int64
}

func (m *model) Generate(ctx context.Context, parts []llm.Part) (string, error) {
	params, err := m.params(parts)
	if err != nil {
		return "", err
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(m.id, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s %s: %w", Name, m.id, llm.ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func (m *model) params(parts []llm.Part) (openai.ChatCompletionNewParams, error) {
	content := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))

	for _, p := range parts {
		switch {
		case p.IsText():
			content = append(content, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{Text: p.Text},
			})
		case p.IsImage():
			content = append(content, openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL:    p.DataURI(),
						Detail: "auto",
					},
				},
			})
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("%s %s: %w: %s", Name, m.id, llm.ErrUnsupportedPart, p.MIMEType)
		}
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if m.instruction != "" {
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(m.instruction),
				},
			},
		})
	}
	messages = append(messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: content,
			},
		},
	})

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.id),
		Messages: messages,
	}
	if m.maxTokens > 0 {
		params.MaxTokens = openai.Int(m.maxTokens)
	}

	return params, nil
}

func wrapError(id string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &llm.StatusError{
			Backend:    Name,
			Model:      id,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return fmt.Errorf("%s %s: %w", Name, id, err)
}

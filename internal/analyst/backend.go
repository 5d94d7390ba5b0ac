package analyst

import (
	"context"
	"fmt"

	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/pkg/llm"
	"github.com/JaimeStill/verdict/pkg/llm/anthropic"
	"github.com/JaimeStill/verdict/pkg/llm/gemini"
	"github.com/JaimeStill/verdict/pkg/llm/openai"
)

// BackendFunc opens the generative backend for cfg.
type BackendFunc func(ctx context.Context, cfg *config.AnalystConfig) (llm.Backend, error)

// NewBackend opens the backend named by cfg.Provider.
func NewBackend(ctx context.Context, cfg *config.AnalystConfig) (llm.Backend, error) {
	switch cfg.Provider {
	case gemini.Name:
		return gemini.New(ctx, cfg.APIKey)
	case openai.Name:
		return openai.New(cfg.APIKey, cfg.BaseURL, cfg.MaxTokens), nil
	case anthropic.Name:
		return anthropic.New(cfg.APIKey, cfg.MaxTokens), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

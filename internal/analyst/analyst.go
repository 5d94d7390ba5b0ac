package analyst

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/verdict/internal/config"
)

// Outcome is a normalized result together with how it was produced.
type Outcome struct {
	Result   *Result   `json:"result"`
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Attempts []Attempt `json:"attempts"`
}

// Analyzer runs post analyses against the configured backend. It holds no
// per-request state and is safe for concurrent use.
type Analyzer struct {
	cfg    config.AnalystConfig
	open   BackendFunc
	logger *slog.Logger
}

// New creates an Analyzer. A nil open uses NewBackend.
func New(cfg config.AnalystConfig, open BackendFunc, logger *slog.Logger) *Analyzer {
	if open == nil {
		open = NewBackend
	}
	return &Analyzer{
		cfg:    cfg,
		open:   open,
		logger: logger.With("system", "analyst"),
	}
}

// Provider returns the configured provider name.
func (a *Analyzer) Provider() string {
	return a.cfg.Provider
}

// Analyze validates in, checks the credential before any model is called,
// invokes the model list and normalizes the first response. A normalization
// failure ends the request; the remaining models are not tried.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Outcome, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := a.cfg.ValidateCredential(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	backend, err := a.open(ctx, &a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s backend: %w", ErrConfiguration, a.cfg.Provider, err)
	}

	prompt := BuildPrompt(in)

	a.logger.InfoContext(
		ctx, "analysis started",
		"provider", backend.Name(),
		"mode", in.Mode,
		"platform", in.Platform,
		"image", in.Image != nil,
		"video", in.Video != nil,
	)

	inv := NewInvoker(backend, a.cfg.Models, a.cfg.AttemptTimeoutDuration(), a.credential(), a.logger)

	resp, err := inv.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := Normalize(resp.Text, in.HasVideo())
	if err != nil {
		return nil, fmt.Errorf("normalize %s response: %w", resp.Model, err)
	}

	a.logger.InfoContext(
		ctx, "analysis complete",
		"model", resp.Model,
		"decision", result.Decision.Decision,
		"attempts", len(resp.Attempts),
	)

	return &Outcome{
		Result:   result,
		Provider: backend.Name(),
		Model:    resp.Model,
		Attempts: resp.Attempts,
	}, nil
}

func (a *Analyzer) credential() Credential {
	return Credential{
		Provider:  a.cfg.Provider,
		KeyEnv:    a.cfg.KeyEnv(),
		KeyPrefix: a.cfg.KeyPrefix(),
		Console:   a.cfg.Console(),
	}
}

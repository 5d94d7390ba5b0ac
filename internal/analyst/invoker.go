package analyst

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/verdict/pkg/llm"
)

// InstructionMode records how the instruction reached the model.
type InstructionMode string

const (
	// InstructionSystem passes the instruction as a system-role field.
	InstructionSystem InstructionMode = "system"
	// InstructionInline relies on the copy embedded in the text part.
	InstructionInline InstructionMode = "inline"
)

// Attempt is the outcome of one model call.
type Attempt struct {
	Model     string          `json:"model"`
	Mode      InstructionMode `json:"mode,omitempty"`
	Succeeded bool            `json:"succeeded"`
	Reason    Reason          `json:"reason,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Credential describes where the backend key is configured. It is used only
// to make error messages actionable.
type Credential struct {
	Provider  string
	KeyEnv    string
	KeyPrefix string
	Console   string
}

// Response is the raw text of the first successful attempt.
type Response struct {
	Text     string
	Model    string
	Attempts []Attempt
}

// Invoker tries an ordered model list until one model answers.
type Invoker struct {
	backend    llm.Backend
	models     []string
	timeout    time.Duration
	credential Credential
	logger     *slog.Logger
}

// NewInvoker creates an invoker over models in priority order. A zero
// timeout leaves attempts bounded only by ctx.
func NewInvoker(
	backend llm.Backend,
	models []string,
	timeout time.Duration,
	credential Credential,
	logger *slog.Logger,
) *Invoker {
	return &Invoker{
		backend:    backend,
		models:     models,
		timeout:    timeout,
		credential: credential,
		logger:     logger,
	}
}

// Invoke returns the first successful response. Models are tried one at a
// time in order. An authentication failure stops the loop with *AuthError;
// cancellation of ctx stops it with ctx's error; anything else moves on to
// the next model and, once the list is exhausted, yields *ExhaustedError.
func (v *Invoker) Invoke(ctx context.Context, p Prompt) (*Response, error) {
	attempts := make([]Attempt, 0, len(v.models))
	var lastErr error

	for _, id := range v.models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, attempt, err := v.attempt(ctx, id, p)
		attempts = append(attempts, attempt)

		if err == nil {
			v.logger.InfoContext(ctx, "model attempt succeeded", "model", id, "mode", attempt.Mode)
			return &Response{Text: text, Model: id, Attempts: attempts}, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("model %s: %w", id, ctxErr)
		}

		lastErr = err
		action := attempt.Reason.Action()

		v.logger.WarnContext(
			ctx, "model attempt failed",
			"model", id,
			"reason", attempt.Reason,
			"action", action,
			"error", err,
		)

		if action == Abort {
			return nil, &AuthError{
				Model:      id,
				Credential: v.credential,
				Attempts:   attempts,
				Err:        err,
			}
		}
	}

	return nil, &ExhaustedError{
		Models:     v.models,
		Attempts:   attempts,
		Credential: v.credential,
		Err:        lastErr,
	}
}

func (v *Invoker) attempt(ctx context.Context, id string, p Prompt) (string, Attempt, error) {
	attempt := Attempt{Model: id}

	model, mode, err := v.open(id, p.Instruction)
	attempt.Mode = mode
	if err != nil {
		return "", v.fail(attempt, err), err
	}

	actx, cancel := v.attemptContext(ctx)
	defer cancel()

	text, err := model.Generate(actx, p.Parts)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		if actx.Err() != nil && ctx.Err() == nil && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return "", v.fail(attempt, err), err
	}

	attempt.Succeeded = true
	return text, attempt, nil
}

// open prefers a handle carrying the instruction as a system field and
// falls back to a plain handle when the model does not support one.
func (v *Invoker) open(id, instruction string) (llm.Model, InstructionMode, error) {
	if instruction == "" {
		m, err := v.backend.Model(id, llm.Options{})
		return m, InstructionInline, err
	}

	m, err := v.backend.Model(id, llm.Options{SystemInstruction: instruction})
	if errors.Is(err, llm.ErrSystemInstructionUnsupported) {
		v.logger.Debug("system instruction unsupported, using inline instruction", "model", id)
		m, err = v.backend.Model(id, llm.Options{})
		return m, InstructionInline, err
	}
	return m, InstructionSystem, err
}

func (v *Invoker) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, v.timeout)
}

func (v *Invoker) fail(a Attempt, err error) Attempt {
	a.Reason = Classify(err)
	a.Message = err.Error()
	return a
}

// AuthError stops the invoker when the backend rejects the credential.
// Every remaining model would fail the same way.
type AuthError struct {
	Model      string
	Credential Credential
	Attempts   []Attempt
	Err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf(
		"%s: %s rejected the API key on %s; check that %s is set correctly: %v",
		ErrAuthFailed, e.Credential.Provider, e.Model, e.Credential.KeyEnv, e.Err,
	)
}

func (e *AuthError) Unwrap() []error {
	return []error{ErrAuthFailed, e.Err}
}

// ExhaustedError reports that every model failed.
type ExhaustedError struct {
	Models     []string
	Attempts   []Attempt
	Credential Credential
	Err        error
}

// AllNotFound reports whether every attempt failed as not-found, the usual
// signature of a misconfigured key.
func (e *ExhaustedError) AllNotFound() bool {
	if len(e.Attempts) == 0 {
		return false
	}
	for _, a := range e.Attempts {
		if a.Reason.Action() != ContinueWithHint {
			return false
		}
	}
	return true
}

func (e *ExhaustedError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: tried %s", ErrModelsExhausted, strings.Join(e.Models, ", "))
	if e.Err != nil {
		fmt.Fprintf(&sb, "; last error: %v", e.Err)
	}

	if len(e.Attempts) > 0 {
		sb.WriteString("\n\nerrors:")
		for _, a := range e.Attempts {
			fmt.Fprintf(&sb, "\n%s: %s", a.Model, a.Message)
		}
	}

	if e.AllNotFound() {
		sb.WriteString(e.credentialHint())
	}

	return sb.String()
}

func (e *ExhaustedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrModelsExhausted}
	}
	return []error{ErrModelsExhausted, e.Err}
}

func (e *ExhaustedError) credentialHint() string {
	c := e.Credential
	return fmt.Sprintf("\n\n"+
		"every model returned not found (404). This usually means one of:\n"+
		"1. the API key is invalid or expired\n"+
		"2. the API key has no access to the %[1]s API\n"+
		"3. the API key is not loaded (the environment variable is not set for this process)\n"+
		"4. the API key is restricted (IP, referrer or API restrictions)\n\n"+
		"to resolve:\n"+
		"1. confirm .env.local or .env sets %[2]s=%[3]s...\n"+
		"2. restart the service so the environment is reloaded\n"+
		"3. issue a new key from %[4]s\n"+
		"4. confirm the key is allowed to call the %[1]s API\n"+
		"5. confirm the %[1]s API is enabled for the key's project",
		c.Provider, c.KeyEnv, c.KeyPrefix, c.Console,
	)
}

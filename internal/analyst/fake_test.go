package analyst_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/JaimeStill/verdict/pkg/llm"
)

type outcome struct {
	text  string
	err   error
	block bool
}

type fakeBackend struct {
	mu       sync.Mutex
	outcomes map[string]outcome
	noSystem map[string]bool
	calls    []string
	options  map[string]llm.Options
	parts    [][]llm.Part
}

func newFakeBackend(outcomes map[string]outcome) *fakeBackend {
	return &fakeBackend{
		outcomes: outcomes,
		noSystem: map[string]bool{},
		options:  map[string]llm.Options{},
	}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Model(id string, opts llm.Options) (llm.Model, error) {
	if opts.SystemInstruction != "" && b.noSystem[id] {
		return nil, llm.ErrSystemInstructionUnsupported
	}
	b.mu.Lock()
	b.options[id] = opts
	b.mu.Unlock()
	return &fakeModel{backend: b, id: id}, nil
}

func (b *fakeBackend) called() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

type fakeModel struct {
	backend *fakeBackend
	id      string
}

func (m *fakeModel) Generate(ctx context.Context, parts []llm.Part) (string, error) {
	m.backend.mu.Lock()
	m.backend.calls = append(m.backend.calls, m.id)
	m.backend.parts = append(m.backend.parts, parts)
	o := m.backend.outcomes[m.id]
	m.backend.mu.Unlock()

	if o.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return o.text, o.err
}

func notFound(id string) error {
	return &llm.StatusError{Backend: "fake", Model: id, StatusCode: 404, Message: "model not found"}
}

func rateLimited(id string) error {
	return &llm.StatusError{Backend: "fake", Model: id, StatusCode: 429, Message: "resource exhausted"}
}

func forbidden(id string) error {
	return &llm.StatusError{Backend: "fake", Model: id, StatusCode: 403, Message: "permission denied"}
}

// response builds a model response with every required section. Sections
// named in omit are left out; extra entries are added or replace defaults.
func response(decision string, extra map[string]any, omit ...string) string {
	body := map[string]any{
		"qualitative": map[string]any{
			"summary":         "launch announcement",
			"tone":            "positive",
			"targetAudience":  "existing customers",
			"messageClarity":  "clear",
			"emotionalAppeal": "moderate",
			"brandVoice":      "consistent",
		},
		"quantitative": map[string]any{
			"performanceSummary": "no metrics provided",
			"engagementAnalysis": "n/a",
			"reachAnalysis":      "n/a",
		},
		"improvements": map[string]any{
			"contentImprovements":     []string{"add a call to action"},
			"nextPostRecommendations": []string{"follow up with a demo"},
		},
		"decision": map[string]any{
			"decision": decision,
			"reason":   "strong launch message",
		},
		"brandSafety": map[string]any{
			"brandToneMismatch":       "low",
			"misunderstandingRisk":    "low",
			"platformContextMismatch": "medium",
			"kpiTradeoff":             "low",
			"overallCaution":          "confirm the launch date",
		},
		"decisionLog": map[string]any{
			"aiInsight":          "clear message",
			"finalDecision":      decision,
			"decisionReason":     "ready",
			"nextKpis":           []string{"saves"},
			"reevaluationTiming": "24 hours after posting",
		},
		"nextAction": map[string]any{
			"action":       "post as is",
			"successKpis":  []string{"engagement rate above 3%"},
			"reviewTiming": "marketing owner within 24 hours",
		},
	}

	for k, v := range extra {
		body[k] = v
	}
	for _, k := range omit {
		delete(body, k)
	}

	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return string(data)
}

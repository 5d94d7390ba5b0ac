package analyst_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/verdict/internal/analyst"
)

var proposal = map[string]any{
	"textProposals": []string{"Launch day is here."},
	"creativeProposal": map[string]any{
		"type":        "image",
		"imagePrompt": "product on a clean desk",
		"description": "hero shot",
	},
}

var reasons = map[string]any{
	"forManagement": "timing conflicts with the quarter close",
}

func TestNormalizeConditionalSections(t *testing.T) {
	tests := []struct {
		name          string
		decision      string
		extra         map[string]any
		wantReasons   bool
		wantProposal  bool
		wantTextCount int
	}{
		{"GO without sections", "GO", nil, false, true, 0},
		{"GO with rejection reasons", "GO", map[string]any{"rejectionReasons": reasons}, false, true, 0},
		{"GO with proposal", "GO", map[string]any{"postProposal": proposal}, false, true, 1},
		{"HOLD without sections", "HOLD", nil, true, true, 0},
		{"HOLD with both", "HOLD", map[string]any{"rejectionReasons": reasons, "postProposal": proposal}, true, true, 1},
		{"NO-GO without sections", "NO-GO", nil, true, false, 0},
		{"NO-GO with proposal", "NO-GO", map[string]any{"postProposal": proposal}, true, false, 0},
		{"NO-GO with null sections", "NO-GO", map[string]any{"rejectionReasons": nil, "postProposal": nil}, true, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := analyst.Normalize(response(tt.decision, tt.extra), false)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			if got := r.RejectionReasons != nil; got != tt.wantReasons {
				t.Errorf("rejectionReasons present = %v, want %v", got, tt.wantReasons)
			}
			if got := r.PostProposal != nil; got != tt.wantProposal {
				t.Fatalf("postProposal present = %v, want %v", got, tt.wantProposal)
			}
			if tt.wantProposal {
				if r.PostProposal.TextProposals == nil {
					t.Error("textProposals should never be nil")
				}
				if len(r.PostProposal.TextProposals) != tt.wantTextCount {
					t.Errorf("textProposals = %d, want %d", len(r.PostProposal.TextProposals), tt.wantTextCount)
				}
			}
		})
	}
}

func TestNormalizeCreativeTypeDefault(t *testing.T) {
	missingType := map[string]any{
		"textProposals":    []string{"a"},
		"creativeProposal": map[string]any{"description": "b"},
	}
	missingCreative := map[string]any{
		"textProposals": []string{"a"},
	}

	tests := []struct {
		name     string
		proposal any
		hasVideo bool
		want     analyst.CreativeType
	}{
		{"absent proposal without video", nil, false, analyst.CreativeImage},
		{"absent proposal with video", nil, true, analyst.CreativeVideo},
		{"missing type without video", missingType, false, analyst.CreativeImage},
		{"missing type with video", missingType, true, analyst.CreativeVideo},
		{"missing creative with video", missingCreative, true, analyst.CreativeVideo},
		{"explicit type kept", proposal, true, analyst.CreativeImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var extra map[string]any
			if tt.proposal != nil {
				extra = map[string]any{"postProposal": tt.proposal}
			}

			r, err := analyst.Normalize(response("HOLD", extra), tt.hasVideo)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got := r.PostProposal.CreativeProposal.Type; got != tt.want {
				t.Errorf("creative type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeFenceTolerance(t *testing.T) {
	body := response("GO", nil)

	tests := []struct {
		name string
		raw  string
	}{
		{"bare", body},
		{"json fence", "```json\n" + body + "\n```"},
		{"bare fence with whitespace", "  \n```\n" + body + "\n```\n  "},
		{"fence with prose", "Here is the analysis:\n```json\n" + body + "\n```\nLet me know."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := analyst.Normalize(tt.raw, false)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if r.Decision.Decision != analyst.VerdictGo {
				t.Errorf("decision = %q, want GO", r.Decision.Decision)
			}
		})
	}
}

func TestNormalizeMissingSection(t *testing.T) {
	sections := []string{
		analyst.SectionQualitative,
		analyst.SectionQuantitative,
		analyst.SectionImprovements,
		analyst.SectionDecision,
		analyst.SectionBrandSafety,
		analyst.SectionDecisionLog,
		analyst.SectionNextAction,
	}

	for _, section := range sections {
		t.Run(section, func(t *testing.T) {
			_, err := analyst.Normalize(response("GO", nil, section), false)

			var structErr *analyst.StructureError
			if !errors.As(err, &structErr) {
				t.Fatalf("Normalize() error = %v, want *StructureError", err)
			}
			if !errors.Is(err, analyst.ErrStructure) {
				t.Error("error should match ErrStructure")
			}
			if errors.Is(err, analyst.ErrParse) {
				t.Error("structural error must be distinct from parse error")
			}
			if len(structErr.Missing) != 1 || structErr.Missing[0] != section {
				t.Errorf("missing = %v, want [%s]", structErr.Missing, section)
			}
		})
	}
}

func TestNormalizeNullSectionIsMissing(t *testing.T) {
	_, err := analyst.Normalize(response("GO", map[string]any{"brandSafety": nil}), false)
	if !errors.Is(err, analyst.ErrStructure) {
		t.Fatalf("Normalize() error = %v, want ErrStructure", err)
	}
}

func TestNormalizeParseError(t *testing.T) {
	raw := "I cannot produce JSON for this post. " + strings.Repeat("x", 600)

	_, err := analyst.Normalize(raw, false)
	if !errors.Is(err, analyst.ErrParse) {
		t.Fatalf("Normalize() error = %v, want ErrParse", err)
	}
	if !strings.Contains(err.Error(), "I cannot produce JSON") {
		t.Error("parse error should include the response excerpt")
	}
	if strings.Contains(err.Error(), strings.Repeat("x", 600)) {
		t.Error("excerpt should be truncated")
	}
}

func TestNormalizeVerdictCanonicalization(t *testing.T) {
	tests := []struct {
		raw  string
		want analyst.Verdict
	}{
		{"go", analyst.VerdictGo},
		{" Hold ", analyst.VerdictHold},
		{"NO_GO", analyst.VerdictNoGo},
		{"No Go", analyst.VerdictNoGo},
		{"NO-GO", analyst.VerdictNoGo},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r, err := analyst.Normalize(response(tt.raw, nil), false)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if r.Decision.Decision != tt.want {
				t.Errorf("decision = %q, want %q", r.Decision.Decision, tt.want)
			}
			if r.DecisionLog.FinalDecision != tt.want {
				t.Errorf("finalDecision = %q, want %q", r.DecisionLog.FinalDecision, tt.want)
			}
		})
	}
}

func TestNormalizeUnknownVerdict(t *testing.T) {
	_, err := analyst.Normalize(response("MAYBE", nil), false)

	var structErr *analyst.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("Normalize() error = %v, want *StructureError", err)
	}
	if structErr.Decision != "MAYBE" {
		t.Errorf("decision = %q, want MAYBE", structErr.Decision)
	}
}

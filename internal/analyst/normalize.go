package analyst

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/verdict/pkg/formatting"
)

// Required sections in schema order.
const (
	SectionQualitative  = "qualitative"
	SectionQuantitative = "quantitative"
	SectionImprovements = "improvements"
	SectionDecision     = "decision"
	SectionBrandSafety  = "brandSafety"
	SectionDecisionLog  = "decisionLog"
	SectionNextAction   = "nextAction"
)

// rawResult mirrors Result with every section optional so that absent and
// null sections can be told apart from empty ones.
type rawResult struct {
	Qualitative      *Qualitative      `json:"qualitative"`
	Quantitative     *Quantitative     `json:"quantitative"`
	Improvements     *Improvements     `json:"improvements"`
	Decision         *Decision         `json:"decision"`
	BrandSafety      *BrandSafety      `json:"brandSafety"`
	RejectionReasons *RejectionReasons `json:"rejectionReasons"`
	DecisionLog      *DecisionLog      `json:"decisionLog"`
	NextAction       *NextAction       `json:"nextAction"`
	PostProposal     *rawPostProposal  `json:"postProposal"`
}

type rawPostProposal struct {
	TextProposals    []string          `json:"textProposals"`
	CreativeProposal *CreativeProposal `json:"creativeProposal"`
}

// StructureError reports a parsed response that lacks required sections
// or carries an unknown decision.
type StructureError struct {
	Missing  []string
	Decision string
}

func (e *StructureError) Error() string {
	var details []string
	if len(e.Missing) > 0 {
		details = append(details, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.Decision != "" {
		details = append(details, fmt.Sprintf("unknown decision %q", e.Decision))
	}
	return fmt.Sprintf("%s: %s", ErrStructure, strings.Join(details, "; "))
}

func (e *StructureError) Unwrap() error {
	return ErrStructure
}

// Normalize parses raw model output into a Result. Markdown fencing is
// tolerated. Parse failures wrap ErrParse and structural failures return
// *StructureError. The conditional sections are then completed or cleared
// to match the decision; hasVideo selects the default creative type.
func Normalize(raw string, hasVideo bool) (*Result, error) {
	parsed, err := formatting.Parse[rawResult](raw)
	if err != nil {
		return nil, err
	}

	if err := parsed.validate(); err != nil {
		return nil, err
	}

	verdict, _ := ParseVerdict(string(parsed.Decision.Decision))
	parsed.Decision.Decision = verdict
	if fd, ok := ParseVerdict(string(parsed.DecisionLog.FinalDecision)); ok {
		parsed.DecisionLog.FinalDecision = fd
	}

	result := &Result{
		Qualitative:  *parsed.Qualitative,
		Quantitative: *parsed.Quantitative,
		Improvements: *parsed.Improvements,
		Decision:     *parsed.Decision,
		BrandSafety:  *parsed.BrandSafety,
		DecisionLog:  *parsed.DecisionLog,
		NextAction:   *parsed.NextAction,
	}

	if verdict.WithholdsPublication() {
		result.RejectionReasons = parsed.RejectionReasons
		if result.RejectionReasons == nil {
			result.RejectionReasons = &RejectionReasons{}
		}
	}

	if verdict.AllowsProposal() {
		result.PostProposal = completeProposal(parsed.PostProposal, defaultCreativeType(hasVideo))
	}

	return result, nil
}

func (r *rawResult) validate() error {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}

	check(SectionQualitative, r.Qualitative != nil)
	check(SectionQuantitative, r.Quantitative != nil)
	check(SectionImprovements, r.Improvements != nil)
	check(SectionDecision, r.Decision != nil)
	check(SectionBrandSafety, r.BrandSafety != nil)
	check(SectionDecisionLog, r.DecisionLog != nil)
	check(SectionNextAction, r.NextAction != nil)

	if len(missing) > 0 {
		return &StructureError{Missing: missing}
	}

	if _, ok := ParseVerdict(string(r.Decision.Decision)); !ok {
		return &StructureError{Decision: string(r.Decision.Decision)}
	}

	return nil
}

func completeProposal(raw *rawPostProposal, fallback CreativeType) *PostProposal {
	p := &PostProposal{
		TextProposals:    []string{},
		CreativeProposal: CreativeProposal{Type: fallback},
	}
	if raw == nil {
		return p
	}

	if raw.TextProposals != nil {
		p.TextProposals = raw.TextProposals
	}
	if raw.CreativeProposal != nil {
		p.CreativeProposal = *raw.CreativeProposal
		p.CreativeProposal.Type = canonicalCreativeType(raw.CreativeProposal.Type, fallback)
	}

	return p
}

func canonicalCreativeType(t CreativeType, fallback CreativeType) CreativeType {
	switch CreativeType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case CreativeImage:
		return CreativeImage
	case CreativeVideo:
		return CreativeVideo
	}
	return fallback
}

func defaultCreativeType(hasVideo bool) CreativeType {
	if hasVideo {
		return CreativeVideo
	}
	return CreativeImage
}

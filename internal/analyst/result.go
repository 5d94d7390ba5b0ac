package analyst

import "strings"

// Tone is the overall emotional register of the post.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// Risk is a brand-safety rating.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Verdict is the publishing decision.
type Verdict string

const (
	VerdictGo   Verdict = "GO"
	VerdictHold Verdict = "HOLD"
	VerdictNoGo Verdict = "NO-GO"
)

// Verdicts lists the canonical decisions.
var Verdicts = []Verdict{VerdictGo, VerdictHold, VerdictNoGo}

// ParseVerdict canonicalizes case, spacing and separator variants such as
// "go", "No Go" and "NO_GO". The second result is false for anything else.
func ParseVerdict(s string) (Verdict, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.NewReplacer("_", "-", " ", "-").Replace(v)
	switch v {
	case "GO":
		return VerdictGo, true
	case "HOLD":
		return VerdictHold, true
	case "NO-GO", "NOGO":
		return VerdictNoGo, true
	}
	return Verdict(s), false
}

// WithholdsPublication reports whether the verdict delays or blocks the post.
func (v Verdict) WithholdsPublication() bool {
	return v == VerdictHold || v == VerdictNoGo
}

// AllowsProposal reports whether the verdict leaves a version to publish.
func (v Verdict) AllowsProposal() bool {
	return v == VerdictGo || v == VerdictHold
}

// CreativeType is the medium of a proposed creative.
type CreativeType string

const (
	CreativeImage CreativeType = "image"
	CreativeVideo CreativeType = "video"
)

// Result is a validated analysis. RejectionReasons is set only for HOLD and
// NO-GO; PostProposal is set only for GO and HOLD.
type Result struct {
	Qualitative      Qualitative       `json:"qualitative"`
	Quantitative     Quantitative      `json:"quantitative"`
	Improvements     Improvements      `json:"improvements"`
	Decision         Decision          `json:"decision"`
	BrandSafety      BrandSafety       `json:"brandSafety"`
	RejectionReasons *RejectionReasons `json:"rejectionReasons,omitempty"`
	DecisionLog      DecisionLog       `json:"decisionLog"`
	NextAction       NextAction        `json:"nextAction"`
	PostProposal     *PostProposal     `json:"postProposal,omitempty"`
}

type Qualitative struct {
	Summary         string `json:"summary"`
	Tone            Tone   `json:"tone"`
	TargetAudience  string `json:"targetAudience"`
	MessageClarity  string `json:"messageClarity"`
	EmotionalAppeal string `json:"emotionalAppeal"`
	BrandVoice      string `json:"brandVoice"`
}

type Quantitative struct {
	PerformanceSummary  string `json:"performanceSummary"`
	EngagementAnalysis  string `json:"engagementAnalysis"`
	ReachAnalysis       string `json:"reachAnalysis"`
	ComparisonToAverage string `json:"comparisonToAverage,omitempty"`
}

type Improvements struct {
	ContentImprovements     []string `json:"contentImprovements"`
	TimingSuggestions       string   `json:"timingSuggestions,omitempty"`
	HashtagSuggestions      []string `json:"hashtagSuggestions,omitempty"`
	VisualSuggestions       string   `json:"visualSuggestions,omitempty"`
	NextPostRecommendations []string `json:"nextPostRecommendations"`
}

type Decision struct {
	Decision Verdict `json:"decision"`
	Reason   string  `json:"reason"`
}

type BrandSafety struct {
	BrandToneMismatch       Risk   `json:"brandToneMismatch"`
	MisunderstandingRisk    Risk   `json:"misunderstandingRisk"`
	PlatformContextMismatch Risk   `json:"platformContextMismatch"`
	KPITradeoff             Risk   `json:"kpiTradeoff"`
	OverallCaution          string `json:"overallCaution"`
}

// RejectionReasons explains a withheld post to three audiences.
type RejectionReasons struct {
	ForManagement string `json:"forManagement,omitempty"`
	ForBrand      string `json:"forBrand,omitempty"`
	ForCreator    string `json:"forCreator,omitempty"`
}

type DecisionLog struct {
	AIInsight          string   `json:"aiInsight"`
	FinalDecision      Verdict  `json:"finalDecision"`
	DecisionReason     string   `json:"decisionReason"`
	NextKPIs           []string `json:"nextKpis"`
	ReevaluationTiming string   `json:"reevaluationTiming"`
}

type NextAction struct {
	Action       string   `json:"action"`
	SuccessKPIs  []string `json:"successKpis"`
	ReviewTiming string   `json:"reviewTiming"`
}

// PostProposal is an improved replacement for the post.
type PostProposal struct {
	TextProposals    []string         `json:"textProposals"`
	CreativeProposal CreativeProposal `json:"creativeProposal"`
}

type CreativeProposal struct {
	Type           CreativeType `json:"type"`
	ImagePrompt    string       `json:"imagePrompt,omitempty"`
	VideoStructure string       `json:"videoStructure,omitempty"`
	Description    string       `json:"description"`
}

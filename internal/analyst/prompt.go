package analyst

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/verdict/pkg/formatting"
	"github.com/JaimeStill/verdict/pkg/llm"
)

const persona = `You are an analyst for a B2B product that supports social media publishing decisions at large companies.
The purpose of this tool is not to improve the post. It is to complete the decision: publish, do not publish, or revise.
The output must terminate in an actionable go/no-go decision, not a cosmetic critique. Tie every finding to the decision and to a reason that can be explained internally.`

const prePublishContext = `This is a pre-publish review. The post has not been published yet. Based on its content, decide whether this post should be published.`

const postPublishContext = `This is a post-publish review. The post has already been published. Based on its performance data (impressions, reach, engagement and so on), decide whether posts of this genre (this kind of text and creative) should continue.`

const prePublishReason = `Explain clearly, in text that can be used as-is for internal explanation, whether this post should be published. For GO explain the strengths of the post, for HOLD explain what must be revised, and for NO-GO explain logically why it should not be used.`

const postPublishReason = `Explain clearly, in text that can be used as-is for internal explanation, whether posts of this genre should continue. For GO explain the strengths of the genre and why it should continue, for HOLD explain what should be improved, and for NO-GO explain logically why posts of this genre should stop.`

const shapeTemplate = `Respond with JSON in exactly this shape:
{
  "qualitative": {
    "summary": "summary of the post (about 100 characters)",
    "tone": "positive" | "negative" | "neutral",
    "targetAudience": "detailed description of the expected target audience",
    "messageClarity": "assessment of how clear the message is",
    "emotionalAppeal": "analysis of the emotional appeal",
    "brandVoice": "assessment of brand voice consistency"
  },
  "quantitative": {
    "performanceSummary": "overall performance assessment (when metrics are provided)",
    "engagementAnalysis": "analysis of engagement (likes, comments, shares, saves)",
    "reachAnalysis": "analysis of reach and impressions",
    "comparisonToAverage": "comparison with industry averages or past posts (when possible)"
  },
  "improvements": {
    "contentImprovements": ["improvement 1", "improvement 2", "improvement 3"],
    "timingSuggestions": "posting time suggestion (when possible)",
    "hashtagSuggestions": ["hashtag 1", "hashtag 2"],
    "visualSuggestions": "suggestions for the image or video (when one is attached)",
    "nextPostRecommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
  },
  "decision": {
    "decision": "GO" | "HOLD" | "NO-GO",
    "reason": "%s"
  },
  "brandSafety": {
    "brandToneMismatch": "low" | "medium" | "high",
    "misunderstandingRisk": "low" | "medium" | "high",
    "platformContextMismatch": "low" | "medium" | "high",
    "kpiTradeoff": "low" | "medium" | "high",
    "overallCaution": "concrete, practical cautions for publishing this post"
  },
  "rejectionReasons": {
    "forManagement": "rejection reason for managers and executives (logic first, from data and strategy)",
    "forBrand": "rejection reason for PR and brand owners (tone first, from brand image and risk management)",
    "forCreator": "rejection reason for the creator (revision instructions with specific points to fix)"
  },
  "decisionLog": {
    "aiInsight": "a short summary of the AI's insight",
    "finalDecision": "GO" | "HOLD" | "NO-GO",
    "decisionReason": "a short statement of the decision reason",
    "nextKpis": ["KPI to watch next 1", "KPI to watch next 2"],
    "reevaluationTiming": "when to re-evaluate the decision (for example 24 hours after posting, or after one week)"
  },
  "nextAction": {
    "action": "the next action to take (for example change wording / change channel / skip posting / post as is)",
    "successKpis": ["concrete KPI that decides success or failure 1", "concrete KPI 2"],
    "reviewTiming": "when and by whom the result should be checked (for example the marketing owner within 24 hours of posting)"
  },
  "postProposal": {
    "textProposals": ["post text proposal 1", "post text proposal 2", "post text proposal 3"],
    "creativeProposal": {
      "type": "image" | "video",
      "imagePrompt": "prompt for an image generation model (images only, specific and detailed, in English)",
      "videoStructure": "structure of the video (videos only, scene by scene with cuts and text overlays)",
      "description": "description of the creative (concept, visual elements, colors, mood)"
    }
  }
}`

const rules = `Important:
- Produce rejectionReasons only when decision is "HOLD" or "NO-GO". When decision is "GO", set it to null or an empty object.
- Produce postProposal only when decision is "GO" or "HOLD". When decision is "NO-GO", set it to null or an empty object.
- The post proposal must build on the analysis and propose concrete, improved post content.
- Offer about three text proposals, each with a different approach (tone, length, appeal).
- Set the creative type to "video" when the original post has a video attached, otherwise "image".
- Write every output in natural language that a person can use directly for the decision.
- Combine bullet points with short paragraphs.
- Make the decision, not the analysis, the subject of each statement.`

const dataIntro = "\n\nAnalyze the following post data:\n\n"

// Prompt is the assembled model input. Text always embeds Instruction so a
// model opened without a system instruction still receives it.
type Prompt struct {
	Instruction string
	Text        string
	Parts       []llm.Part
}

// BuildPrompt assembles the instruction and the ordered parts: the text part,
// then the image, then the video.
func BuildPrompt(in Input) Prompt {
	instruction := Instruction(in.Mode)
	text := instruction + dataIntro + DataBlock(in)

	parts := []llm.Part{llm.Text(text)}
	if in.Image != nil {
		parts = append(parts, llm.Blob(in.Image.Data, in.ImageMIME()))
	}
	if in.Video != nil {
		parts = append(parts, llm.Blob(in.Video.Data, in.VideoMIME()))
	}

	return Prompt{
		Instruction: instruction,
		Text:        text,
		Parts:       parts,
	}
}

// Instruction returns the analyst instruction for mode.
func Instruction(mode Mode) string {
	framing, reason := prePublishContext, prePublishReason
	if mode == ModePost {
		framing, reason = postPublishContext, postPublishReason
	}

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")
	sb.WriteString(framing)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, shapeTemplate, reason)
	sb.WriteString("\n\n")
	sb.WriteString(rules)
	return sb.String()
}

// DataBlock renders the labeled lines for the fields present in the input.
func DataBlock(in Input) string {
	var lines []string

	if in.Platform != "" {
		platform := "[Platform] " + string(in.Platform)
		if in.Platform == PlatformInstagram && in.PlatformType != "" {
			platform += fmt.Sprintf(" (%s)", in.PlatformType)
		}
		lines = append(lines, platform)
	}

	lines = append(lines, fmt.Sprintf("[Post Text]\n%s\n", in.Text))

	if in.Image != nil {
		lines = append(lines, fmt.Sprintf("[Image] An image is attached (%s)\n", in.ImageMIME()))
	}
	if in.Video != nil {
		lines = append(lines, fmt.Sprintf("[Video] A video is attached (%s)\n", in.VideoMIME()))
	}

	if m := in.Metrics; m.Any() {
		lines = append(lines, "[Metrics]")
		lines = appendCount(lines, "Impressions", m.Impressions)
		lines = appendCount(lines, "Reach", m.Reach)
		lines = appendCount(lines, "Likes", m.Likes)
		lines = appendCount(lines, "Comments", m.Comments)
		lines = appendCount(lines, "Shares", m.Shares)
		lines = appendCount(lines, "Saves", m.Saves)
		if m.EngagementRate != nil {
			lines = append(lines, "Engagement rate: "+formatting.FormatPercent(*m.EngagementRate))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func appendCount(lines []string, label string, v *int64) []string {
	if v == nil {
		return lines
	}
	return append(lines, label+": "+formatting.FormatCount(*v))
}

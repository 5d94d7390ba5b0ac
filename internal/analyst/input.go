// Package analyst turns a social-media post into a GO / HOLD / NO-GO
// publishing decision. It builds a multimodal prompt, tries an ordered list
// of models until one answers, and validates the answer against the
// decision schema, repairing the conditional sections.
package analyst

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Platform is the social network the post targets.
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformX         Platform = "X"
	PlatformInstagram Platform = "Instagram"
)

// Platforms lists the accepted platforms.
var Platforms = []Platform{PlatformFacebook, PlatformX, PlatformInstagram}

// PlatformType is the Instagram placement.
type PlatformType string

const (
	PlatformTypeFeed  PlatformType = "Feed"
	PlatformTypeReel  PlatformType = "Reel"
	PlatformTypeStory PlatformType = "Story"
)

// PlatformTypes lists the accepted Instagram placements.
var PlatformTypes = []PlatformType{PlatformTypeFeed, PlatformTypeReel, PlatformTypeStory}

// Mode distinguishes a review before publishing from a retrospective one.
type Mode string

const (
	ModePre  Mode = "pre"
	ModePost Mode = "post"
)

const (
	defaultImageMIME = "image/jpeg"
	defaultVideoMIME = "video/mp4"
)

// Media is an attached image or video.
type Media struct {
	Data     []byte
	MIMEType string
}

// Metrics are the post's performance figures. Every field is optional.
type Metrics struct {
	Impressions    *int64   `json:"impressions,omitempty"`
	Reach          *int64   `json:"reach,omitempty"`
	Likes          *int64   `json:"likes,omitempty"`
	Comments       *int64   `json:"comments,omitempty"`
	Shares         *int64   `json:"shares,omitempty"`
	Saves          *int64   `json:"saves,omitempty"`
	EngagementRate *float64 `json:"engagement_rate,omitempty"`
}

// Any reports whether at least one metric is set.
func (m Metrics) Any() bool {
	return m.Impressions != nil ||
		m.Reach != nil ||
		m.Likes != nil ||
		m.Comments != nil ||
		m.Shares != nil ||
		m.Saves != nil ||
		m.EngagementRate != nil
}

// Input is one post submitted for analysis.
type Input struct {
	Text         string
	Platform     Platform
	PlatformType PlatformType
	Image        *Media
	Video        *Media
	Metrics      Metrics
	Mode         Mode
}

// Validate reports malformed input wrapped in ErrInvalidInput. A missing
// PlatformType for Instagram is accepted here; callers that require it
// check it themselves.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if in.Platform != "" && !slices.Contains(Platforms, in.Platform) {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, in.Platform)
	}
	if in.PlatformType != "" && !slices.Contains(PlatformTypes, in.PlatformType) {
		return fmt.Errorf("%w: unknown platform type %q", ErrInvalidInput, in.PlatformType)
	}
	switch in.Mode {
	case "", ModePre, ModePost:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, in.Mode)
	}
	if in.Image != nil && len(in.Image.Data) == 0 {
		return fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	if in.Video != nil && len(in.Video.Data) == 0 {
		return fmt.Errorf("%w: video is empty", ErrInvalidInput)
	}
	return nil
}

// IsPostPublish reports whether the input asks for a retrospective review.
func (in *Input) IsPostPublish() bool {
	return in.Mode == ModePost
}

// HasVideo reports whether a video is attached.
func (in *Input) HasVideo() bool {
	return in.Video != nil && len(in.Video.Data) > 0
}

// ImageMIME returns the resolved image type, or "" without an image.
func (in *Input) ImageMIME() string {
	if in.Image == nil {
		return ""
	}
	return resolveMIME(in.Image, "image/", defaultImageMIME)
}

// VideoMIME returns the resolved video type, or "" without a video.
func (in *Input) VideoMIME() string {
	if in.Video == nil {
		return ""
	}
	return resolveMIME(in.Video, "video/", defaultVideoMIME)
}

// resolveMIME prefers the declared type, then the sniffed type when it is
// of the expected kind, then fallback.
func resolveMIME(m *Media, kind, fallback string) string {
	if declared := strings.TrimSpace(m.MIMEType); declared != "" {
		return declared
	}
	if detected := mimetype.Detect(m.Data); strings.HasPrefix(detected.String(), kind) {
		return detected.String()
	}
	return fallback
}

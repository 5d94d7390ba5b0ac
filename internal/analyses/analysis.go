// Package analyses implements the analysis domain for Verdict.
// It runs post analyses, stores them per user with their media in blob
// storage, and serves the history.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verdict/internal/analyst"
)

// MediaKind selects an attached image or video.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Analysis is a stored analysis with its input summary.
type Analysis struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"user_id"`
	Platform      *string         `json:"platform"`
	PlatformType  *string         `json:"platform_type"`
	Mode          string          `json:"mode"`
	PostText      string          `json:"post_text"`
	ImageKey      *string         `json:"-"`
	ImageMIMEType *string         `json:"image_mime_type"`
	VideoKey      *string         `json:"-"`
	VideoMIMEType *string         `json:"video_mime_type"`
	Metrics       analyst.Metrics `json:"metrics"`
	Decision      string          `json:"decision"`
	Provider      string          `json:"provider"`
	Model         string          `json:"model"`
	Result        analyst.Result  `json:"result"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HasMedia reports whether a blob of the given kind is stored.
func (a *Analysis) HasMedia(kind MediaKind) bool {
	switch kind {
	case MediaImage:
		return a.ImageKey != nil
	case MediaVideo:
		return a.VideoKey != nil
	}
	return false
}

// SaveCommand carries a completed analysis to persist for a user.
type SaveCommand struct {
	UserID  string
	Input   analyst.Input
	Outcome *analyst.Outcome
}

// Outcome is the response to an analysis request. Saved is false for
// anonymous requests and when persistence failed; the analysis itself is
// still returned.
type Outcome struct {
	*analyst.Outcome
	ID        *uuid.UUID `json:"id,omitempty"`
	Saved     bool       `json:"saved"`
	SaveError string     `json:"save_error,omitempty"`
}

package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/verdict/pkg/query"
	"github.com/JaimeStill/verdict/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("platform", "Platform").
	Project("platform_type", "PlatformType").
	Project("mode", "Mode").
	Project("post_text", "PostText").
	Project("image_key", "ImageKey").
	Project("image_mime_type", "ImageMIMEType").
	Project("video_key", "VideoKey").
	Project("video_mime_type", "VideoMIMEType").
	Project("metrics", "Metrics").
	Project("decision", "Decision").
	Project("provider", "Provider").
	Project("model", "Model").
	Project("result", "Result").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. String fields match exactly; Since is inclusive
// and Until exclusive.
type Filters struct {
	Decision     *string    `json:"decision,omitempty"`
	Platform     *string    `json:"platform,omitempty"`
	PlatformType *string    `json:"platform_type,omitempty"`
	Mode         *string    `json:"mode,omitempty"`
	Provider     *string    `json:"provider,omitempty"`
	Since        *time.Time `json:"since,omitempty"`
	Until        *time.Time `json:"until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Decision", f.Decision).
		WhereEquals("Platform", f.Platform).
		WhereEquals("PlatformType", f.PlatformType).
		WhereEquals("Mode", f.Mode).
		WhereEquals("Provider", f.Provider).
		WhereAtLeast("CreatedAt", f.Since).
		WhereBefore("CreatedAt", f.Until)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// since and until accept RFC 3339 timestamps or YYYY-MM-DD dates.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if d := values.Get("decision"); d != "" {
		f.Decision = &d
	}
	if p := values.Get("platform"); p != "" {
		f.Platform = &p
	}
	if pt := values.Get("platform_type"); pt != "" {
		f.PlatformType = &pt
	}
	if m := values.Get("mode"); m != "" {
		f.Mode = &m
	}
	if pr := values.Get("provider"); pr != "" {
		f.Provider = &pr
	}

	var err error
	if f.Since, err = parseTime(values.Get("since")); err != nil {
		return f, fmt.Errorf("%w: since: %w", ErrInvalidForm, err)
	}
	if f.Until, err = parseTime(values.Get("until")); err != nil {
		return f, fmt.Errorf("%w: until: %w", ErrInvalidForm, err)
	}

	return f, nil
}

func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("want RFC 3339 or YYYY-MM-DD, got %q", v)
	}
	return &t, nil
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a       Analysis
		metrics []byte
		result  []byte
	)

	err := s.Scan(
		&a.ID,
		&a.UserID,
		&a.Platform,
		&a.PlatformType,
		&a.Mode,
		&a.PostText,
		&a.ImageKey,
		&a.ImageMIMEType,
		&a.VideoKey,
		&a.VideoMIMEType,
		&metrics,
		&a.Decision,
		&a.Provider,
		&a.Model,
		&result,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &a.Metrics); err != nil {
			return a, fmt.Errorf("decode metrics: %w", err)
		}
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return a, fmt.Errorf("decode result: %w", err)
	}

	return a, nil
}

package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

// ExcerptLength is the number of characters of the raw content
// included in a parse failure.
const ExcerptLength = 500

var fencePattern = regexp.MustCompile("(?s)```(?i:json)?\\s*(.*?)\\s*```")

// StripFence trims content and, when it contains a markdown code fence with
// or without a language tag, returns only the fenced body.
func StripFence(content string) string {
	content = strings.TrimSpace(content)
	if matches := fencePattern.FindStringSubmatch(content); len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return content
}

// Parse unmarshals the fenced body of content (or content itself when
// unfenced) into T. When the fenced body does not parse, the whole trimmed
// content is tried before failing. The returned error wraps ErrParseFailed
// and carries the parser message and the first ExcerptLength characters of
// the raw content.
func Parse[T any](content string) (T, error) {
	var result T

	body := StripFence(content)
	err := json.Unmarshal([]byte(body), &result)
	if err == nil {
		return result, nil
	}

	if trimmed := strings.TrimSpace(content); trimmed != body {
		var retry T
		if json.Unmarshal([]byte(trimmed), &retry) == nil {
			return retry, nil
		}
	}

	return result, fmt.Errorf("%w: %v\n\nresponse:\n%s", ErrParseFailed, err, Excerpt(content, ExcerptLength))
}

// Excerpt returns at most n characters of s, counted in runes.
func Excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

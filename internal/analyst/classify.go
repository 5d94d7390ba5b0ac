package analyst

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JaimeStill/verdict/pkg/llm"
)

// Reason classifies a failed model attempt.
type Reason string

const (
	ReasonNotFound    Reason = "not-found"
	ReasonRateLimited Reason = "rate-limited"
	ReasonAuth        Reason = "auth-failure"
	ReasonTimeout     Reason = "timeout"
	ReasonOther       Reason = "other"
)

// Action is what the invoker does after a failed attempt.
type Action int

const (
	// Continue tries the next model.
	Continue Action = iota
	// ContinueWithHint tries the next model and, if every attempt fails the
	// same way, adds the credential diagnostic to the aggregate error.
	ContinueWithHint
	// Abort stops the loop.
	Abort
)

func (a Action) String() string {
	switch a {
	case ContinueWithHint:
		return "continue-with-hint"
	case Abort:
		return "abort"
	}
	return "continue"
}

var policy = map[Reason]Action{
	ReasonNotFound:    ContinueWithHint,
	ReasonRateLimited: Continue,
	ReasonAuth:        Abort,
	ReasonTimeout:     Continue,
	ReasonOther:       Continue,
}

// Action returns the policy for r. Unknown reasons continue.
func (r Reason) Action() Action {
	if a, ok := policy[r]; ok {
		return a
	}
	return Continue
}

// Classify inspects err's status code and message. Timeouts are checked
// first, then not-found, rate limiting and authentication in that order.
func Classify(err error) Reason {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	status := llm.StatusCode(err)
	msg := strings.ToLower(err.Error())

	switch {
	case status == http.StatusNotFound ||
		strings.Contains(msg, "404"):
		return ReasonNotFound
	case status == http.StatusTooManyRequests ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit"):
		return ReasonRateLimited
	case status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "api key"):
		return ReasonAuth
	}
	return ReasonOther
}

package analyst

import (
	"context"
	"errors"
	"net/http"

	"github.com/JaimeStill/verdict/pkg/formatting"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrConfiguration   = errors.New("analyst not configured")
	ErrAuthFailed      = errors.New("model authentication failed")
	ErrModelsExhausted = errors.New("no available model")
	ErrStructure       = errors.New("invalid response structure")
	ErrParse           = formatting.ErrParseFailed
)

// MapHTTPStatus maps analyst errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrAuthFailed),
		errors.Is(err, ErrParse),
		errors.Is(err, ErrStructure):
		return http.StatusBadGateway
	case errors.Is(err, ErrModelsExhausted):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

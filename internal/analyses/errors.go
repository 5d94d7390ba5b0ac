package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/pkg/auth"
	"github.com/JaimeStill/verdict/pkg/repository"
	"github.com/JaimeStill/verdict/pkg/storage"
)

// Domain errors for analysis operations.
var (
	ErrNotFound      = errors.New("analysis not found")
	ErrDuplicate     = errors.New("analysis already exists")
	ErrInvalidForm   = errors.New("invalid analysis form")
	ErrFileTooLarge  = errors.New("upload exceeds maximum size")
	ErrMediaNotFound = errors.New("analysis has no such media")
	ErrSaveFailed    = errors.New("failed to save analysis")
)

// MapHTTPStatus maps analysis, analyst and storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMediaNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidForm), errors.Is(err, repository.ErrConstraint):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotFound):
		return storage.MapHTTPStatus(err)
	}
	return analyst.MapHTTPStatus(err)
}

package storage

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNotFound indicates the requested blob does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey indicates an empty storage key was provided.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey indicates a key that is absolute, too long, or contains
	// a traversal or empty segment.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// maxKeyLength is the blob name limit of the backing service.
const maxKeyLength = 1024

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// validateKey accepts relative slash-separated keys such as
// "analyses/<id>/image".
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(key) > maxKeyLength || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return ErrInvalidKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == "" || seg == "." {
			return ErrInvalidKey
		}
	}
	return nil
}

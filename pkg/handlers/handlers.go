// Package handlers writes JSON responses for HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// requestIDHeader matches the header the request logger sets on every response.
const requestIDHeader = "X-Request-ID"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondJSON writes data as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondNoContent writes a bare 204.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError logs err and writes an ErrorBody with the given status.
// Server errors log at error level, client errors at warn. The request ID is
// echoed when the response already carries one.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	id := w.Header().Get(requestIDHeader)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "request failed", "status", status, "id", id, "error", err)

	RespondJSON(w, status, ErrorBody{Error: err.Error(), RequestID: id})
}

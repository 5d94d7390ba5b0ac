package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/pkg/auth"
	"github.com/JaimeStill/verdict/pkg/formatting"
	"github.com/JaimeStill/verdict/pkg/handlers"
	"github.com/JaimeStill/verdict/pkg/pagination"
	"github.com/JaimeStill/verdict/pkg/routes"
)

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "analyses"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyses",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Analyze},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/history", Handler: h.History},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/media/{kind}", Handler: h.Media},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// Analyze runs an analysis from a multipart form. Anonymous requests are
// analyzed but not saved.
//
// Form fields: text, platform, platform_type, mode, impressions, reach,
// likes, comments, shares, saves, engagement_rate, and the files image and
// video.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: limit is %s", ErrFileTooLarge, formatting.FormatBytes(maxErr.Limit, 0)))
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidForm, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := inputFromForm(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	userID, _ := auth.UserFromContext(r.Context())

	out, err := h.sys.Analyze(r.Context(), userID, in)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, out)
}

// History returns the caller's most recent analyses.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.sys.History(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// List returns a paginated list of the caller's analyses with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), userID, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching analyses.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidForm)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), userID, req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single analysis by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidForm)
		return
	}

	a, err := h.sys.Find(r.Context(), userID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// Media streams the stored image or video of an analysis.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidForm)
		return
	}

	kind := MediaKind(r.PathValue("kind"))
	if kind != MediaImage && kind != MediaVideo {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrMediaNotFound)
		return
	}

	blob, err := h.sys.Media(r.Context(), userID, id, kind)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("media stream interrupted", "id", id, "kind", kind, "error", err)
	}
}

// Delete removes an analysis by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidForm)
		return
	}

	if err := h.sys.Delete(r.Context(), userID, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

func inputFromForm(r *http.Request) (analyst.Input, error) {
	in := analyst.Input{
		Text:         r.FormValue("text"),
		Platform:     analyst.Platform(strings.TrimSpace(r.FormValue("platform"))),
		PlatformType: analyst.PlatformType(strings.TrimSpace(r.FormValue("platform_type"))),
		Mode:         analyst.Mode(strings.TrimSpace(r.FormValue("mode"))),
	}

	if in.Platform == analyst.PlatformInstagram && in.PlatformType == "" {
		return in, fmt.Errorf("%w: platform_type is required for Instagram", ErrInvalidForm)
	}

	metrics, err := metricsFromForm(r)
	if err != nil {
		return in, err
	}
	in.Metrics = metrics

	if in.Image, err = mediaFromForm(r, "image"); err != nil {
		return in, err
	}
	if in.Video, err = mediaFromForm(r, "video"); err != nil {
		return in, err
	}

	return in, nil
}

func metricsFromForm(r *http.Request) (analyst.Metrics, error) {
	var m analyst.Metrics

	counts := []struct {
		field string
		dest  **int64
	}{
		{"impressions", &m.Impressions},
		{"reach", &m.Reach},
		{"likes", &m.Likes},
		{"comments", &m.Comments},
		{"shares", &m.Shares},
		{"saves", &m.Saves},
	}

	for _, c := range counts {
		v := strings.TrimSpace(r.FormValue(c.field))
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return m, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidForm, c.field)
		}
		*c.dest = &n
	}

	if v := strings.TrimSpace(r.FormValue("engagement_rate")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return m, fmt.Errorf("%w: engagement_rate must be a non-negative number", ErrInvalidForm)
		}
		m.EngagementRate = &f
	}

	return m, nil
}

func mediaFromForm(r *http.Request, field string) (*analyst.Media, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidForm, field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidForm, field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &analyst.Media{Data: data, MIMEType: declaredType(header)}, nil
}

func declaredType(header *multipart.FileHeader) string {
	ct := strings.TrimSpace(header.Header.Get("Content-Type"))
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

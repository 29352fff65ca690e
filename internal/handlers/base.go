// Package handlers exposes the admin HTTP API. Every handler responds
// with the envelope {success, message?, data?, errors?}.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/innerdreams/admin-backend/internal/models"
	"github.com/innerdreams/admin-backend/internal/validation"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// response is the envelope every endpoint answers with
type response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    any                     `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

func (h *BaseHandler) respond(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondData sends a success envelope carrying a data payload
func (h *BaseHandler) RespondData(w http.ResponseWriter, status int, data any) {
	h.respond(w, status, response{Success: true, Data: data})
}

// RespondMessage sends a success envelope carrying a message and an
// optional data payload
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string, data any) {
	h.respond(w, status, response{Success: true, Message: message, Data: data})
}

// RespondError sends a failure envelope
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, response{Success: false, Message: message})
}

// RespondValidation sends the collected field errors as a single 400
func (h *BaseHandler) RespondValidation(w http.ResponseWriter, errs []validation.FieldError) {
	h.respond(w, http.StatusBadRequest, response{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// RespondServiceError maps a service error to its HTTP status. Not-found
// rows become 404 with the given message, duplicate unique fields become
// 400 with the field-naming message, everything else is logged and
// answered with a generic 500.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, models.ErrDuplicate):
		h.RespondError(w, http.StatusBadRequest, duplicateMessage(err))
	default:
		h.Logger.Error("request failed", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "Server error")
	}
}

// duplicateMessage strips the wrapped sentinel suffix, leaving the
// field-naming part of the error
func duplicateMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+models.ErrDuplicate.Error())
}

// parseID reads the {id} route parameter
func parseID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// parseListParams reads the common list query parameters, clamping the
// page to 1 and the limit to [1, 100]
func parseListParams(r *http.Request) models.ListParams {
	q := r.URL.Query()

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	limit := defaultPageLimit
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
	}

	return models.ListParams{
		Page:      page,
		Limit:     limit,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

// queryBool reads an optional boolean filter, nil when absent or malformed
func queryBool(r *http.Request, name string) *bool {
	if raw := r.URL.Query().Get(name); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			return &b
		}
	}
	return nil
}

// queryInt reads an optional integer filter, 0 when absent or malformed
func queryInt(r *http.Request, name string) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return 0
}

// queryDate reads an optional yyyy-mm-dd filter, nil when absent or malformed
func queryDate(r *http.Request, name string) *time.Time {
	if raw := r.URL.Query().Get(name); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return &t
		}
	}
	return nil
}

// listPayload wraps a page of items with its pagination descriptor under
// the entity's plural key
func listPayload(key string, items any, params models.ListParams, total int) map[string]any {
	return map[string]any{
		key:          items,
		"pagination": models.NewPagination(params.Page, params.Limit, total),
	}
}

// decodeBody decodes a JSON request body into dst
func (h *BaseHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

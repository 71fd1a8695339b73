package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"rentdesk-backend/internal/api/dto"
	"rentdesk-backend/internal/application/service"
	"rentdesk-backend/internal/infrastructure/storage"
)

// Base provides shared functionality for all handlers.
type Base struct {
	repo storage.Repository
}

// NewBase creates a new base handler with the given repository.
func NewBase(repo storage.Repository) *Base {
	return &Base{repo: repo}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteServiceError maps a service-layer error onto its HTTP status and
// error code. Unknown errors become 500 without leaking the message.
func (b *Base) WriteServiceError(w http.ResponseWriter, err error) {
	var (
		validation   *service.ValidationError
		notFound     *service.NotFoundError
		conflict     *service.ConflictError
		precondition *service.PreconditionError
	)
	switch {
	case errors.As(err, &validation):
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError(validation.Message))
	case errors.As(err, &notFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError(notFound.Resource))
	case errors.As(err, &conflict):
		b.WriteError(w, http.StatusConflict, dto.ConflictError(conflict.Message))
	case errors.As(err, &precondition):
		b.WriteError(w, http.StatusPreconditionFailed, dto.PreconditionError(precondition.Message))
	default:
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}

// DecodeJSON decodes the request body into dst, writing a 400 on failure.
// Returns false if decoding failed and the response is already written.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body"))
		return false
	}
	return true
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseID parses a URL path segment as a positive int64 id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silvacore/patrimony/pkg/serrors"
)

// Envelope is the uniform response shape for every API endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Paginated wraps a page of items together with its pagination block.
type Paginated[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func NewPaginated[T any](items []T, total int64, page, limit int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Pagination: NewPagination(total, page, limit),
	}
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data any) error {
	return WriteJSON(w, status, &Envelope{Success: true, Data: data})
}

// WriteError maps a service error onto the envelope with the HTTP status
// its code implies. Unknown errors become an opaque 500.
func WriteError(w http.ResponseWriter, err error) error {
	var be *serrors.BaseError
	if !errors.As(err, &be) {
		return WriteJSON(w, http.StatusInternalServerError, &Envelope{
			Success: false,
			Error:   "internal server error",
		})
	}
	var details any
	if len(be.Details) > 0 {
		details = be.Details
	}
	return WriteJSON(w, StatusForCode(be.Code), &Envelope{
		Success: false,
		Error:   be.Message,
		Details: details,
	})
}

// StatusForCode maps stable error codes to HTTP statuses.
func StatusForCode(code string) int {
	switch code {
	case serrors.ValidationCode, "INVALID_GEOMETRY", "INVALID_REFERENCE", "INVALID_LEVEL":
		return http.StatusBadRequest
	case "NO_ORGANIZATION", "FORBIDDEN":
		return http.StatusForbidden
	case "NOT_FOUND", "PARENT_NOT_FOUND":
		return http.StatusNotFound
	case "DUPLICATE_CODE", "HAS_DEPENDENTS":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package handler

// RESPONSE HELPERS:
// writeJSON and writeError are the only places the JSON API sets headers
// and status codes, so every endpoint answers in the same shape.
//
// CONSISTENT ERROR FORMAT:
// Every JSON error from the API has the same shape:
//   {"error": "validation_error", "message": "nickname is required", "field": "nickname"}
//
// "error" is stable and machine-readable; "message" is for people.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/ghlookup/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "validation_error")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Set for validation errors
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation   → 400 validation_error
//	apperror.ErrNotFound     → 404 not_found
//	apperror.ErrUnauthorized → 401 unauthorized
//	apperror.ErrFetch        → 502 fetch_failed
//	anything else            → 500 internal_error, generic message
//
// errors.Is walks the whole Unwrap chain, so a sentinel wrapped with
// fmt.Errorf("...: %w", err) in a lower layer still maps correctly.
// A failed lookup normally never reaches here: it is a 200 with
// status "failed" (see APIHandler.HandleLookup).
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrFetch):
			status = http.StatusBadGateway
			errorType = "fetch_failed"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// Package apperror defines the domain errors shared by every layer.
//
// Layers return these (usually wrapped with fmt.Errorf and %w) and only the
// HTTP handlers translate them into status codes.
package apperror

import (
	"errors"
	"fmt"
)

// SENTINEL ERRORS:
// These are compared with errors.Is, never by message. A layer adds context
// with fmt.Errorf("...: %w", err) and the sentinel still matches at the top:
//
//	errors.Is(fmt.Errorf("lookup: %w", FetchFailed(cause)), ErrFetch) == true
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrFetch        = errors.New("fetch failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// FetchFailedMessage is the only text a user ever sees for a failed lookup.
// Transport errors, bad statuses and malformed bodies all collapse into it.
const FetchFailedMessage = "Failed to fetch data"

// AppError carries a sentinel plus what a client may see (Message, Field)
// and what only logs may see (Cause).
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying error, kept for logs only
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// FetchFailed wraps any failure of the outbound GitHub call. The cause is
// retained for logging; Message is always FetchFailedMessage.
func FetchFailed(cause error) *AppError {
	return &AppError{
		Err:     ErrFetch,
		Message: FetchFailedMessage,
		Cause:   cause,
	}
}

// Unauthorized is returned when a session cookie is missing, expired or forged.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// PublicMessage returns the text that is safe to show to a user for err.
// Anything that is not an *AppError becomes fallback.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Quorum error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrMissingEntry    ErrorCode = "MISSING_ENTRY"    // 422
	ErrProviderFailure ErrorCode = "PROVIDER_FAILURE" // 502
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// QuorumError represents a structured error with code, status, and details.
type QuorumError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *QuorumError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *QuorumError {
	return &QuorumError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing record or pack.
func NewNotFound(identifier string) *QuorumError {
	return &QuorumError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewMissingEntry creates a 422 error for a pack lacking a required role entry.
func NewMissingEntry(slug, locale, role string) *QuorumError {
	return &QuorumError{
		Code:    ErrMissingEntry,
		Status:  422,
		Message: fmt.Sprintf("pack %s/%s has no entry for role %s", slug, locale, role),
		Details: map[string]any{"slug": slug, "locale": locale, "role": role},
	}
}

// NewProviderFailure creates a 502 error for a failed model call.
// The orchestrator normally swallows this in favor of fallback content;
// it surfaces only when no fallback applies.
func NewProviderFailure(err error) *QuorumError {
	msg := "provider call failed"
	if err != nil {
		msg = err.Error()
	}
	return &QuorumError{
		Code:    ErrProviderFailure,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The user-facing message stays generic; the original error is kept in
// Details for logging.
func NewInternal(err error) *QuorumError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &QuorumError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a QuorumError with the given code.
func Is(err error, code ErrorCode) bool {
	var qErr *QuorumError
	if stderrors.As(err, &qErr) {
		return qErr.Code == code
	}
	return false
}

// As extracts the QuorumError an error is or wraps.
func As(err error, target **QuorumError) bool {
	return stderrors.As(err, target)
}

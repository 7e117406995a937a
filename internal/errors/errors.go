package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ===========================================================================
// Custom Errors
// Standard application errors, each mapped to an HTTP status code.
// Services return these; the API layer translates them to responses.
// ===========================================================================

// Sentinel errors for use with errors.Is()
var (
	// ErrNotFound resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized missing or invalid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden authenticated but not allowed
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput malformed or rejected input
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEntry unique constraint violated (e.g. email taken)
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrConflict state conflict (e.g. converting a missing lead)
	ErrConflict = errors.New("conflict")

	// ErrNotImplemented operation intentionally unimplemented
	ErrNotImplemented = errors.New("not implemented")

	// ErrInternal unexpected server-side failure
	ErrInternal = errors.New("internal server error")

	// Auth errors
	// ErrInvalidCredentials email or password wrong, or account not active
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired token past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken token malformed or signature mismatch
	ErrInvalidToken = errors.New("invalid token")
)

// ===========================================================================
// AppError
// ===========================================================================

// AppError carries a sentinel error plus a user-facing message.
type AppError struct {
	// Err wrapped sentinel error
	Err error

	// Message user-facing description
	Message string

	// Code machine-readable code (e.g. "NOT_FOUND")
	Code string

	// StatusCode HTTP status
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap exposes the sentinel for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError from a sentinel error and a message.
func New(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: StatusCode(err),
		Code:       ErrorCode(err),
	}
}

// Wrap adds context while keeping the error chain intact.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// ===========================================================================
// Error Mapping
// ===========================================================================

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode maps an error to its machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrDuplicateEntry):
		return "DUPLICATE_ENTRY"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrNotImplemented):
		return "NOT_IMPLEMENTED"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrTokenExpired):
		return "TOKEN_EXPIRED"
	case errors.Is(err, ErrInvalidToken):
		return "INVALID_TOKEN"
	default:
		return "INTERNAL_ERROR"
	}
}

// Is is a convenience wrapper over errors.Is().
func Is(err, target error) bool {
	return errors.Is(err, target)
}

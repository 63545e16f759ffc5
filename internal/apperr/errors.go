// Package apperr defines the error kinds the workflow layer returns and the
// HTTP boundary maps to status codes. Anything that is not one of these kinds
// is treated as an internal failure upstream.
package apperr

import "fmt"

// ValidationError: missing or malformed input. Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError: a referenced resource does not exist. Maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError: the requester is not allowed to touch the resource.
// Maps to 403.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func Authorizationf(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

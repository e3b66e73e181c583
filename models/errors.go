// models/errors.go - Error taxonomy mapped to HTTP statuses by the app error handler
package models

import "net/http"

// AppError is the one error type the HTTP layer knows how to render:
// 401 unauthenticated, 403 forbidden, 404 not found, 409 conflict,
// 429 rate limited, 400 bad request.
type AppError struct {
	Status     int
	Message    string
	RetryAfter int // seconds; set only for 429
}

func (e *AppError) Error() string {
	return e.Message
}

func ErrBadRequest(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func ErrUnauthenticated(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

// ErrNotFound is deliberately distinct from ErrForbidden so public lookups can
// answer "not found" without revealing whether access would have been denied.
func ErrNotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

func ErrRateLimited(msg string, retryAfter int) *AppError {
	return &AppError{Status: http.StatusTooManyRequests, Message: msg, RetryAfter: retryAfter}
}

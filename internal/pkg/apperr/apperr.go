package apperr

import (
	"errors"
	"fmt"
)

// AppError pairs a message with the HTTP status it should surface as.
// Services return these; the server error handler does the mapping.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code int, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInsufficientCredits = New(402, "insufficient credits")
	ErrAlreadyProcessed    = New(400, "transaction already processed")
	ErrNotFound            = New(404, "resource not found")
	ErrUnauthorized        = New(401, "unauthorized")
	ErrForbidden           = New(403, "forbidden")
)

func NotFound(what string) *AppError {
	return Newf(404, "%s not found", what)
}

func Validation(message string) *AppError {
	return New(400, message)
}

// AdapterFailure wraps an upstream provider or gateway error as a 502.
func AdapterFailure(upstream string, err error) *AppError {
	return Newf(502, "%s request failed: %v", upstream, err)
}

// CodeOf extracts the HTTP status for an error, defaulting to 500.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 500
}

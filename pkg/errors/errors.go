// Package errors provides the AppError type used for boundary failures
// (I/O, malformed input) per spec.md §7. Routing infeasibilities are
// never wrapped in AppError — they are recorded as plain reason strings
// in the solution's unrouted-reason map.
//
// Adapted from the teacher's pkg/errors package: same Code/Message/
// InternalErr/Details shape and Wrap/WrapWithCode helpers. The HTTP
// Status field is retained for reuse by internal/api; the CLI path
// simply leaves it unset.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a standardized boundary-failure error.
type AppError struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Status      int                    `json:"-"`
	InternalErr error                  `json:"-"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.InternalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.InternalErr)
	}
	return e.Message
}

// Unwrap returns the internal error for error wrapping.
func (e *AppError) Unwrap() error {
	return e.InternalErr
}

// WithDetails adds additional details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithInternal sets the internal error.
func (e *AppError) WithInternal(err error) *AppError {
	e.InternalErr = err
	return e
}

// NewInputError reports that the input document could not be parsed or
// validated.
func NewInputError(message string) *AppError {
	return &AppError{Code: "INPUT_ERROR", Message: message, Status: http.StatusBadRequest}
}

// NewOutputError reports that the result document could not be written.
func NewOutputError(message string) *AppError {
	return &AppError{Code: "OUTPUT_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// NewValidationError reports a struct validation failure.
func NewValidationError(message string) *AppError {
	if message == "" {
		message = "Validation failed"
	}
	return &AppError{Code: "VALIDATION_ERROR", Message: message, Status: http.StatusBadRequest}
}

// NewInternalError reports an unexpected internal failure.
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// NewUnauthorizedError reports a missing/invalid bearer token
// (internal/api's auth guard).
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized access"
	}
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized}
}

// IsAppError reports whether err is an *AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// Wrap wraps err with a message, converting it to an AppError if it
// isn't one already.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		appErr.Message = message
		return appErr
	}
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError, InternalErr: err}
}

// WrapWithCode wraps err with a custom code, message, and HTTP status.
func WrapWithCode(err error, code, message string, status int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Status: status, InternalErr: err}
}

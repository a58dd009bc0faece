package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewNotFoundError returns an error for a missing user, job or application
func NewNotFoundError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: "Not found",
		Detail:  detail,
	}
}

// NewConflictError returns an error for duplicate state, e.g. applying twice
// to the same job
func NewConflictError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: "Conflict",
		Detail:  detail,
	}
}

func NewUnauthorizedError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnauthorized,
		Message: message,
	}
}

// IsNotFound reports whether err is a NotFound-class error
func IsNotFound(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == http.StatusNotFound
}

// IsConflict reports whether err is a Conflict-class error
func IsConflict(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == http.StatusConflict
}

// HTTPStatus returns the HTTP status carried by err, or 500 for plain errors
func HTTPStatus(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}

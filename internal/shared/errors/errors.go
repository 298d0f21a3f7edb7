// Package errors provides application-level error types and utilities.
// It defines the typed errors produced by the stores and services so that
// HTTP handlers can map them to transport codes without string matching.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeInvalidStatus ErrorType = "invalid_status"
	ErrorTypeInUse         ErrorType = "in_use"
	ErrorTypeRateLimited   ErrorType = "rate_limited"
	ErrorTypeAdapter       ErrorType = "adapter_failure"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       int       `json:"code"`
	Details    string    `json:"details,omitempty"`
	RetryAfter int       `json:"retry_after,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newError(errType ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = strings.Join(details, "; ")
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error (HTTP 422)
func NewValidationError(message string, details ...string) *AppError {
	return newError(ErrorTypeValidation, http.StatusUnprocessableEntity, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details...)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newError(ErrorTypeForbidden, http.StatusForbidden, message, details...)
}

// NewInvalidStatusError reports an unknown status slug or a forbidden transition.
func NewInvalidStatusError(message string, details ...string) *AppError {
	return newError(ErrorTypeInvalidStatus, http.StatusUnprocessableEntity, message, details...)
}

// NewInUseError reports an attempted deletion of a status definition that is
// still referenced by live tickets. The offending slugs go into Details.
func NewInUseError(message string, slugs ...string) *AppError {
	return newError(ErrorTypeInUse, http.StatusConflict, message, slugs...)
}

// NewRateLimitedError creates a limiter rejection carrying a retry hint in seconds.
func NewRateLimitedError(retryAfter int) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Message:    "rate limit exceeded",
		Code:       http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// NewAdapterError wraps a third-party call failure.
func NewAdapterError(adapter string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeAdapter,
		Message: fmt.Sprintf("%s adapter call failed", adapter),
		Code:    http.StatusBadGateway,
		Details: err.Error(),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// GetAppError extracts an AppError from an error chain, or returns nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

// IsConflict reports whether err is a conflict AppError.
func IsConflict(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConflict
}

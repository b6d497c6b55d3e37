// Package errors defines the service error taxonomy translated into HTTP
// responses by the API layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code classifies a ServiceError.
type Code string

const (
	CodeValidation   Code = "VALIDATION_FAILED"
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeStorage      Code = "STORAGE_FAILURE"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInvalidToken Code = "INVALID_TOKEN"
	CodeRateLimited  Code = "RATE_LIMIT_EXCEEDED"
)

// ServiceError is an error with enough context to build an HTTP response.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a detail entry and returns the same error.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Resource returns the "resource" detail, if any.
func (e *ServiceError) Resource() string {
	r, _ := e.Details["resource"].(string)
	return r
}

func newError(code Code, status int, message string, err error) *ServiceError {
	return &ServiceError{Code: code, HTTPStatus: status, Message: message, Err: err}
}

// Validation wraps a rule-set failure; the cause keeps the violation mapping.
func Validation(cause error) *ServiceError {
	return newError(CodeValidation, http.StatusBadRequest, "validation failed", cause)
}

// BadRequest reports an unreadable request.
func BadRequest(message string, cause error) *ServiceError {
	return newError(CodeBadRequest, http.StatusBadRequest, message, cause)
}

// NotFound reports a missing entity of the given resource kind.
func NotFound(resource string) *ServiceError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found", nil).WithDetails("resource", resource)
}

// Conflict reports a write refused because other records depend on the target.
func Conflict(resource string, cause error) *ServiceError {
	return newError(CodeConflict, http.StatusConflict, resource+" is still referenced", cause).WithDetails("resource", resource)
}

// Storage reports a persistence failure.
func Storage(operation string, cause error) *ServiceError {
	return newError(CodeStorage, http.StatusInternalServerError, operation+" failed", cause).WithDetails("operation", operation)
}

// Internal reports an unexpected failure.
func Internal(message string, cause error) *ServiceError {
	return newError(CodeInternal, http.StatusInternalServerError, message, cause)
}

// Unauthorized reports a request without usable credentials.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "authentication required"
	}
	return newError(CodeUnauthorized, http.StatusUnauthorized, message, nil)
}

// InvalidToken reports a bearer token that failed verification.
func InvalidToken(cause error) *ServiceError {
	return newError(CodeInvalidToken, http.StatusUnauthorized, "invalid or expired token", cause)
}

// RateLimitExceeded reports a throttled caller.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return newError(CodeRateLimited, http.StatusTooManyRequests, fmt.Sprintf("rate limit of %d requests per %s exceeded", limit, window), nil).
		WithDetails("limit", limit).
		WithDetails("window", window)
}

// GetServiceError extracts a ServiceError from err's chain.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// Is reports whether err carries a ServiceError with the given code.
func Is(err error, code Code) bool {
	svcErr := GetServiceError(err)
	return svcErr != nil && svcErr.Code == code
}

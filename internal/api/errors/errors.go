package errors

import (
	"errors"
	"fmt"
	"net/http"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/session"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindBadRequest         ErrorKind = "bad_request"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Kind:    KindUnauthorized,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromDomainError maps domain-level failures onto API errors. Provider error
// codes keep their code so clients can distinguish the failure classes;
// unrecognized errors surface as internal.
func FromDomainError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var provErr *provider.TranscriptionError
	if errors.As(err, &provErr) {
		kind := KindInternal
		switch provErr.Code {
		case provider.CodeAuthenticationFailed:
			kind = KindUnauthorized
		case provider.CodeUploadRejected:
			kind = KindBadRequest
		case provider.CodeServiceError, provider.CodeNetworkError:
			kind = KindServiceUnavailable
		}
		return &APIError{
			Kind:    kind,
			Message: provErr.Message,
			Code:    provErr.Code,
		}
	}

	var fmtErr *export.FormatError
	if errors.As(err, &fmtErr) {
		return &APIError{
			Kind:    KindBadRequest,
			Message: fmtErr.Error(),
			Code:    "unsupported_format",
		}
	}

	if errors.Is(err, session.ErrNotFound) {
		return &APIError{
			Kind:    KindUnauthorized,
			Message: "session not found or expired",
			Code:    "session_not_found",
		}
	}
	if errors.Is(err, session.ErrResultNotFound) {
		return NewNotFoundError("transcription")
	}

	return NewInternalError("Internal server error")
}

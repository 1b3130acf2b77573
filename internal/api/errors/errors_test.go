package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/session"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected int
	}{
		{KindValidation, http.StatusUnprocessableEntity},
		{KindBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindServiceUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := &APIError{Kind: tt.kind}
		assert.Equal(t, tt.expected, err.HTTPStatus())
	}
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedKind ErrorKind
		expectedCode string
	}{
		{
			name: "authentication failure",
			err: &provider.TranscriptionError{
				Code:    provider.CodeAuthenticationFailed,
				Message: "bad key",
			},
			expectedKind: KindUnauthorized,
			expectedCode: provider.CodeAuthenticationFailed,
		},
		{
			name: "upload rejection",
			err: &provider.TranscriptionError{
				Code:    provider.CodeUploadRejected,
				Message: "too big",
			},
			expectedKind: KindBadRequest,
			expectedCode: provider.CodeUploadRejected,
		},
		{
			name: "service error",
			err: &provider.TranscriptionError{
				Code:    provider.CodeServiceError,
				Message: "rate limited",
			},
			expectedKind: KindServiceUnavailable,
			expectedCode: provider.CodeServiceError,
		},
		{
			name: "network error",
			err: &provider.TranscriptionError{
				Code:    provider.CodeNetworkError,
				Message: "timeout",
			},
			expectedKind: KindServiceUnavailable,
			expectedCode: provider.CodeNetworkError,
		},
		{
			name:         "unsupported export format",
			err:          &export.FormatError{Format: "docx"},
			expectedKind: KindBadRequest,
			expectedCode: "unsupported_format",
		},
		{
			name:         "missing session",
			err:          session.ErrNotFound,
			expectedKind: KindUnauthorized,
			expectedCode: "session_not_found",
		},
		{
			name:         "missing transcription",
			err:          session.ErrResultNotFound,
			expectedKind: KindNotFound,
		},
		{
			name:         "unknown error",
			err:          errors.New("boom"),
			expectedKind: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromDomainError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.expectedKind, apiErr.Kind)
			assert.Equal(t, tt.expectedCode, apiErr.Code)
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, FromDomainError(nil))
	})

	t.Run("api errors pass through unchanged", func(t *testing.T) {
		original := NewBadRequestError("bad")
		assert.Same(t, original, FromDomainError(original))
	})

	t.Run("internal errors never leak details", func(t *testing.T) {
		apiErr := FromDomainError(errors.New("db password is hunter2"))
		assert.NotContains(t, apiErr.Message, "hunter2")
	})
}

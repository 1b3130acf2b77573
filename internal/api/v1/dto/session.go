package dto

import (
	"strings"
	"time"

	"legal-scribe/internal/api/errors"
)

// CreateSessionRequest opens a session. The API key is held in memory for
// the session lifetime only; an empty key selects demo mode.
type CreateSessionRequest struct {
	APIKey string `json:"api_key"`
}

// Validate checks domain rules for session creation
func (r *CreateSessionRequest) Validate() error {
	r.APIKey = strings.TrimSpace(r.APIKey)
	if len(r.APIKey) > 256 {
		return errors.NewValidationError("Validation failed", map[string]string{
			"api_key": "is too long",
		})
	}
	return nil
}

// SessionResponse describes a session. The credential is never echoed back.
type SessionResponse struct {
	SessionID        string    `json:"session_id"`
	DemoMode         bool      `json:"demo_mode"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresInSeconds int64     `json:"expires_in_seconds"`
}

// SessionInfoResponse describes a live session's state. Like SessionResponse
// it carries no trace of the credential itself.
type SessionInfoResponse struct {
	SessionID          string    `json:"session_id"`
	DemoMode           bool      `json:"demo_mode"`
	CreatedAt          time.Time `json:"created_at"`
	TranscriptionCount int       `json:"transcription_count"`
	ExpiresInSeconds   int64     `json:"expires_in_seconds"`
}

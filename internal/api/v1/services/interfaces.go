package services

import (
	"context"
	"io"

	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/model"
	"legal-scribe/internal/app/session"
)

// TranscribeInput is one upload ready for transcription. FilePath points at
// a temp spool that the handler removes after the call returns.
type TranscribeInput struct {
	FilePath string
	Filename string

	// APIKey is a per-request credential override. It takes precedence over
	// the session credential and is never stored anywhere.
	APIKey string

	Provider string
	Language string
	Model    string
	Keyterms []string

	Diarize        bool
	DetectEntities bool
}

// SessionService manages session lifecycles.
type SessionService interface {
	Create(apiKey string) dto.SessionResponse
	Get(id string) (*session.Session, error)
	Info(id string) (dto.SessionInfoResponse, error)
	Delete(id string) error
}

// TranscriptionService runs uploads through a provider and keeps the results
// in the session.
type TranscriptionService interface {
	Transcribe(ctx context.Context, sess *session.Session, input TranscribeInput) (model.TranscriptionResult, error)
	Get(sess *session.Session, id string) (model.TranscriptionResult, error)
	List(sess *session.Session) []model.TranscriptionResult
}

// ExportService serializes results for download.
type ExportService interface {
	Export(results []model.TranscriptionResult, format export.Format, w io.Writer) error
}

// ProviderService exposes the provider registry to the API.
type ProviderService interface {
	List() dto.ProviderListResponse
	Get(name string) (provider.ProviderInfo, error)
	HealthCheck(ctx context.Context) dto.ProviderHealthResponse
}

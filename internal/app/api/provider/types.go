package provider

import (
	"time"

	"legal-scribe/internal/app/model"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
)

// ProviderType defines the type of transcription provider
type ProviderType string

const (
	ProviderTypeRemote ProviderType = "remote"
	ProviderTypeLocal  ProviderType = "local"
)

// MaxUploadBytes is the upper bound accepted for a single audio file.
// Matches the vendor-side 25MB limit.
const MaxUploadBytes = 25 * 1024 * 1024

// TranscriptionRequest carries one transcription call's input. The audio is
// referenced by a temporary file path and the credential is held only for the
// duration of the call; neither is ever written to durable storage.
type TranscriptionRequest struct {
	// InputFilePath points at a temp spool of the uploaded audio.
	InputFilePath string `json:"input_file_path"`

	// Filename is the name of the original upload, for reporting only.
	Filename string `json:"filename,omitempty"`

	// APIKey is the per-request vendor credential. Excluded from any
	// serialization and from log fields.
	APIKey string `json:"-"`

	// Language hint ("en", "auto", ...). Empty lets the vendor detect.
	Language string `json:"language,omitempty"`

	// Model is a provider-specific model id override.
	Model string `json:"model,omitempty"`

	// Keyterms are vocabulary hints forwarded verbatim to the vendor.
	Keyterms []string `json:"keyterms,omitempty"`

	// Diarize asks the vendor to attribute segments to speakers.
	Diarize bool `json:"diarize"`

	// DetectEntities asks the vendor to return typed entity spans.
	DetectEntities bool `json:"detect_entities"`

	// ProviderOptions carries provider-specific extras.
	ProviderOptions map[string]interface{} `json:"provider_options,omitempty"`
}

// TranscriptionResponse is the parsed vendor result.
type TranscriptionResponse struct {
	Text     string          `json:"text"`
	Language string          `json:"language,omitempty"`
	Segments []model.Segment `json:"segments,omitempty"`
	Entities []model.Entity  `json:"entities,omitempty"`

	// Duration of the audio in seconds, when the vendor reports it.
	Duration float64 `json:"duration,omitempty"`

	ProcessingTime   time.Duration          `json:"processing_time,omitempty"`
	ModelUsed        string                 `json:"model_used,omitempty"`
	ProviderMetadata map[string]interface{} `json:"provider_metadata,omitempty"`
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Type        ProviderType `json:"type"`
	Version     string       `json:"version,omitempty"`

	SupportedFormats   []AudioFormat `json:"supported_formats"`
	SupportedLanguages []string      `json:"supported_languages,omitempty"`
	MaxFileSizeMB      int           `json:"max_file_size_mb,omitempty"`

	SupportsDiarization     bool `json:"supports_diarization"`
	SupportsEntityDetection bool `json:"supports_entity_detection"`
	SupportsKeyterms        bool `json:"supports_keyterms"`
	SupportsTimestamps      bool `json:"supports_timestamps"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`

	DefaultModel    string   `json:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty"`
}

// Error codes shared across providers. Each maps to one user-visible failure
// class at the API boundary.
const (
	CodeAuthenticationFailed = "authentication_failed"
	CodeUploadRejected       = "upload_rejected"
	CodeServiceError         = "service_error"
	CodeNetworkError         = "network_error"
)

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	Retryable   bool     `json:"retryable"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

// IsValidAudioFormat checks if the given format is supported
func IsValidAudioFormat(format string) bool {
	switch AudioFormat(format) {
	case FormatWAV, FormatMP3, FormatM4A, FormatFLAC, FormatOGG, FormatWEBM:
		return true
	default:
		return false
	}
}

package dto

import (
	"strings"
	"time"

	"legal-scribe/internal/app/model"
	"legal-scribe/internal/app/render"
)

// TranscribeRequest carries the form fields accompanying an audio upload.
// The file itself arrives as the "file" multipart part.
type TranscribeRequest struct {
	Provider string `form:"provider"`
	Language string `form:"language"`
	Model    string `form:"model"`

	// Keyterms is a comma-separated list of vocabulary hints.
	Keyterms string `form:"keyterms"`

	Diarize        bool `form:"diarize"`
	DetectEntities bool `form:"detect_entities"`
}

// KeytermList splits and trims the comma-separated keyterms field.
func (r *TranscribeRequest) KeytermList() []string {
	if strings.TrimSpace(r.Keyterms) == "" {
		return nil
	}
	parts := strings.Split(r.Keyterms, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// TranscriptionResponse is one completed transcription plus its
// display-ready rendering.
type TranscriptionResponse struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Provider string  `json:"provider"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Diarized bool    `json:"diarized"`

	Text     string          `json:"text"`
	Segments []model.Segment `json:"segments,omitempty"`
	Entities []model.Entity  `json:"entities,omitempty"`
	Keyterms []string        `json:"keyterms,omitempty"`

	Rendered render.RenderedTranscript `json:"rendered"`

	CreatedAt time.Time `json:"created_at"`
}

// NewTranscriptionResponse builds the response for one result.
func NewTranscriptionResponse(result model.TranscriptionResult) TranscriptionResponse {
	return TranscriptionResponse{
		ID:        result.ID,
		Filename:  result.Filename,
		Provider:  result.Provider,
		Language:  result.Language,
		Duration:  result.Duration,
		Diarized:  result.Diarized,
		Text:      result.Text,
		Segments:  result.Segments,
		Entities:  result.Entities,
		Keyterms:  result.Keyterms,
		Rendered:  render.Render(&result),
		CreatedAt: result.CreatedAt,
	}
}

// TranscriptionSummary is the list form of a transcription.
type TranscriptionSummary struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Provider    string    `json:"provider"`
	Language    string    `json:"language,omitempty"`
	Duration    float64   `json:"duration,omitempty"`
	EntityTotal int       `json:"entity_total"`
	CreatedAt   time.Time `json:"created_at"`
}

// TranscriptionListResponse lists a session's transcriptions in arrival order.
type TranscriptionListResponse struct {
	Count          int                    `json:"count"`
	Transcriptions []TranscriptionSummary `json:"transcriptions"`
}

// NewTranscriptionListResponse builds the list response.
func NewTranscriptionListResponse(results []model.TranscriptionResult) TranscriptionListResponse {
	resp := TranscriptionListResponse{
		Count:          len(results),
		Transcriptions: make([]TranscriptionSummary, 0, len(results)),
	}
	for _, r := range results {
		resp.Transcriptions = append(resp.Transcriptions, TranscriptionSummary{
			ID:          r.ID,
			Filename:    r.Filename,
			Provider:    r.Provider,
			Language:    r.Language,
			Duration:    r.Duration,
			EntityTotal: len(r.Entities),
			CreatedAt:   r.CreatedAt,
		})
	}
	return resp
}

package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/model"
)

// Provider is an offline stand-in used when no vendor credential is
// available. It returns a canned two-speaker legal transcript so the rest of
// the flow (rendering, entity display, exports) can be exercised end to end.
type Provider struct {
	// Delay simulates vendor processing time. Zero in tests.
	Delay time.Duration
}

// NewProvider creates a demo provider.
func NewProvider() *Provider {
	return &Provider{Delay: 1500 * time.Millisecond}
}

var demoSegments = []model.Segment{
	{
		Speaker: "speaker_0",
		Start:   0.0,
		End:     8.2,
		Text:    "Mr. John Smith specifically mentioned the breach of contract occurring on July 15th, 2023.",
	},
	{
		Speaker: "speaker_1",
		Start:   8.6,
		End:     12.5,
		Text:    "We never agreed to those terms in the initial MSA.",
	},
}

var demoEntities = []model.Entity{
	{Type: model.EntityPerson, Text: "John Smith", Start: 0.5, End: 1.2},
	{Type: model.EntityDate, Text: "July 15th, 2023", Start: 4.5, End: 5.8},
	{Type: model.EntityContract, Text: "MSA", Start: 12.0, End: 12.5},
}

// Transcribe returns the canned result. Keyterms are echoed into the entity
// list when they appear in the transcript, mirroring vendor behavior.
func (p *Provider) Transcribe(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, &provider.TranscriptionError{
				Code:      provider.CodeNetworkError,
				Message:   fmt.Sprintf("demo transcription canceled: %v", ctx.Err()),
				Provider:  "demo",
				Retryable: false,
			}
		}
	}

	texts := make([]string, len(demoSegments))
	segments := make([]model.Segment, len(demoSegments))
	for i, s := range demoSegments {
		texts[i] = s.Text
		segments[i] = s
		if !request.Diarize {
			segments[i].Speaker = ""
		}
	}
	text := strings.Join(texts, " ")

	entities := make([]model.Entity, 0, len(demoEntities)+len(request.Keyterms))
	if request.DetectEntities {
		entities = append(entities, demoEntities...)
		for _, term := range request.Keyterms {
			idx := strings.Index(strings.ToLower(text), strings.ToLower(term))
			if idx < 0 {
				continue
			}
			entities = append(entities, model.Entity{
				Type: model.EntityLegalTerm,
				Text: text[idx : idx+len(term)],
			})
		}
	}

	return &provider.TranscriptionResponse{
		Text:           text,
		Language:       "en",
		Segments:       segments,
		Entities:       entities,
		Duration:       demoSegments[len(demoSegments)-1].End,
		ProcessingTime: p.Delay,
		ModelUsed:      "demo",
		ProviderMetadata: map[string]interface{}{
			"demo": true,
		},
	}, nil
}

// GetProviderInfo reports the demo provider capabilities.
func (p *Provider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "demo",
		DisplayName: "Demo Mode",
		Type:        provider.ProviderTypeLocal,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3,
			provider.FormatWAV,
		},
		SupportsDiarization:     true,
		SupportsEntityDetection: true,
		SupportsKeyterms:        true,
		SupportsTimestamps:      true,
		RequiresInternet:        false,
		RequiresAPIKey:          false,
		DefaultModel:            "demo",
	}
}

// ValidateConfiguration always succeeds; the demo provider has no config.
func (p *Provider) ValidateConfiguration() error {
	return nil
}

// HealthCheck always succeeds.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return nil
}

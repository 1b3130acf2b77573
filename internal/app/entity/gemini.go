package entity

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"legal-scribe/internal/app/model"
)

// GeminiDetector extracts entities with the Google Gemini API.
type GeminiDetector struct {
	apiKey string
	model  string
}

// NewGeminiDetector creates a detector backed by Gemini.
func NewGeminiDetector(apiKey string) *GeminiDetector {
	return &GeminiDetector{
		apiKey: apiKey,
		model:  "gemini-2.0-flash",
	}
}

// Detect extracts entities from text via one generate-content call.
func (d *GeminiDetector) Detect(ctx context.Context, text string, keyterms []string) ([]model.Entity, error) {
	if len(model.NormalizeSpace(text)) == 0 {
		return nil, errors.New("empty text provided")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  d.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, d.model, genai.Text(buildPrompt(text, keyterms)), nil)
	if err != nil {
		return nil, fmt.Errorf("entity detection generate content failed: %w", err)
	}

	return parseEntities(resp.Text())
}

// Name identifies the detector.
func (d *GeminiDetector) Name() string {
	return "gemini"
}

package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"legal-scribe/internal/app/model"
)

// Detector extracts typed entity spans from transcript text. It is the
// fallback for providers whose responses carry no entity annotations.
type Detector interface {
	// Detect returns the entities found in text. Keyterms are supplied as
	// additional candidates the detector should look for.
	Detect(ctx context.Context, text string, keyterms []string) ([]model.Entity, error)

	// Name identifies the detector implementation.
	Name() string
}

const promptTemplate = `You are an entity extraction assistant for legal e-discovery.
Extract every entity from the transcript below. Entity types: person, date,
organization, contract, legal_term, location, money.
Respond with a JSON array only, no prose. Each element:
{"type": "<type>", "text": "<exact span from the transcript>"}
%s
Transcript:
%s`

// buildPrompt assembles the extraction prompt shared by all LLM detectors.
func buildPrompt(text string, keyterms []string) string {
	hints := ""
	if len(keyterms) > 0 {
		hints = fmt.Sprintf("Pay particular attention to these terms: %s.", strings.Join(keyterms, ", "))
	}
	return fmt.Sprintf(promptTemplate, hints, text)
}

// parseEntities decodes a model completion into entities. Completions are
// sometimes wrapped in a markdown code fence; strip it before decoding.
func parseEntities(completion string) ([]model.Entity, error) {
	raw := strings.TrimSpace(completion)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(raw, "```")
		raw = strings.TrimSpace(raw)
	}

	var decoded []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("entity completion is not valid JSON: %w", err)
	}

	entities := make([]model.Entity, 0, len(decoded))
	for _, d := range decoded {
		if d.Text == "" {
			continue
		}
		entities = append(entities, model.Entity{
			Type: model.EntityType(strings.ToLower(strings.TrimSpace(d.Type))),
			Text: d.Text,
		})
	}
	return entities, nil
}

package model

import (
	"strings"
	"time"
)

// EntityType classifies a span of transcript text for discovery review.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityDate         EntityType = "date"
	EntityOrganization EntityType = "organization"
	EntityContract     EntityType = "contract"
	EntityLegalTerm    EntityType = "legal_term"
	EntityLocation     EntityType = "location"
	EntityMoney        EntityType = "money"
)

// Entity is one typed span detected in a transcript. Start and End are
// seconds into the audio; zero when the detector works on text alone.
type Entity struct {
	Type  EntityType `json:"type"`
	Text  string     `json:"text"`
	Start float64    `json:"start,omitempty"`
	End   float64    `json:"end,omitempty"`
}

// Segment is one contiguous speaker turn. Speaker is empty when diarization
// was not requested. Concatenating all segment texts in order, separated by
// single spaces, reproduces the full transcript text.
type Segment struct {
	Speaker string  `json:"speaker,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// TranscriptionResult is one completed transcription. It lives in session
// memory only; there is no durable record of it anywhere.
type TranscriptionResult struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`

	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	Entities []Entity  `json:"entities,omitempty"`

	// Keyterms are the vocabulary hints the caller supplied for this run.
	Keyterms []string `json:"keyterms,omitempty"`
	Diarized bool     `json:"diarized"`

	Provider string  `json:"provider"`
	Duration float64 `json:"duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Speakers returns the distinct speaker labels in order of first appearance.
func (r *TranscriptionResult) Speakers() []string {
	seen := make(map[string]bool)
	var speakers []string
	for _, s := range r.Segments {
		if s.Speaker == "" || seen[s.Speaker] {
			continue
		}
		seen[s.Speaker] = true
		speakers = append(speakers, s.Speaker)
	}
	return speakers
}

// EntityCounts tallies detected entities by type.
func (r *TranscriptionResult) EntityCounts() map[EntityType]int {
	counts := make(map[EntityType]int, len(r.Entities))
	for _, e := range r.Entities {
		counts[e.Type]++
	}
	return counts
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims the
// ends. Used when joining vendor word tokens back into display text.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

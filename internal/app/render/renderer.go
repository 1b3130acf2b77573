package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/samber/lo"

	"legal-scribe/internal/app/model"
)

// RenderedTranscript is the display-ready form of a TranscriptionResult:
// the transcript as HTML with entity spans, speaker-attributed segments,
// and an entity summary.
type RenderedTranscript struct {
	ID            string            `json:"id"`
	Filename      string            `json:"filename"`
	HTML          string            `json:"html"`
	Segments      []RenderedSegment `json:"segments,omitempty"`
	EntitySummary []EntityCount     `json:"entity_summary,omitempty"`
	EntityTotal   int               `json:"entity_total"`
	SpeakerTotal  int               `json:"speaker_total"`
}

// RenderedSegment is one speaker turn prepared for display.
type RenderedSegment struct {
	Speaker  string `json:"speaker,omitempty"`
	Timecode string `json:"timecode"`
	HTML     string `json:"html"`
}

// EntityCount is the number of entities detected for one type.
type EntityCount struct {
	Type  model.EntityType `json:"type"`
	Count int              `json:"count"`
}

// Render converts a TranscriptionResult into its display structure. It is a
// pure function of its input; malformed input is a programming error, not a
// runtime condition.
func Render(result *model.TranscriptionResult) RenderedTranscript {
	rendered := RenderedTranscript{
		ID:           result.ID,
		Filename:     result.Filename,
		HTML:         HighlightHTML(result.Text, result.Entities),
		EntityTotal:  len(result.Entities),
		SpeakerTotal: len(result.Speakers()),
	}

	for _, s := range result.Segments {
		rendered.Segments = append(rendered.Segments, RenderedSegment{
			Speaker:  s.Speaker,
			Timecode: fmt.Sprintf("%s - %s", timecode(s.Start), timecode(s.End)),
			HTML:     HighlightHTML(s.Text, result.Entities),
		})
	}

	counts := lo.CountValuesBy(result.Entities, func(e model.Entity) model.EntityType {
		return e.Type
	})
	for entityType, count := range counts {
		rendered.EntitySummary = append(rendered.EntitySummary, EntityCount{
			Type:  entityType,
			Count: count,
		})
	}
	sort.Slice(rendered.EntitySummary, func(i, j int) bool {
		a, b := rendered.EntitySummary[i], rendered.EntitySummary[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})

	return rendered
}

// HighlightHTML escapes text and wraps every entity occurrence in a tagged
// span. Newlines become <br> tags.
func HighlightHTML(text string, entities []model.Entity) string {
	escaped := html.EscapeString(text)

	// Longer spans first so "John Smith" is not split by an earlier "John".
	ordered := make([]model.Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Text) > len(ordered[j].Text)
	})

	// Two passes: matches are first swapped for private-use placeholder runes
	// so a shorter entity ("John") can never match inside the markup already
	// inserted for a longer one ("John Smith").
	seen := make(map[string]bool, len(ordered))
	var spans []string
	for _, e := range ordered {
		if e.Text == "" || seen[e.Text] {
			continue
		}
		seen[e.Text] = true
		span := fmt.Sprintf(
			`<span class="entity-tag" data-entity-type=%q title=%q>%s (%s)</span>`,
			e.Type, e.Type, html.EscapeString(e.Text), strings.ToUpper(string(e.Type)),
		)
		escaped = strings.ReplaceAll(escaped, html.EscapeString(e.Text), placeholder(len(spans)))
		spans = append(spans, span)
	}
	for i, span := range spans {
		escaped = strings.ReplaceAll(escaped, placeholder(i), span)
	}

	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func placeholder(i int) string {
	return string(rune(0xE000 + i))
}

func timecode(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

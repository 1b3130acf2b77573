package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"legal-scribe/internal/app/model"
)

// Format identifies an export serialization.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// FormatError reports an unsupported export format.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %s", e.Format)
}

// Exporter serializes transcription results on demand. It keeps no state
// between calls; every export is regenerated from the results it is given.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the results to w in the requested format. An unsupported
// format fails with *FormatError before any byte is written.
func (e *Exporter) Export(results []model.TranscriptionResult, format Format, w io.Writer) error {
	switch format {
	case FormatText:
		return e.exportText(results, w)
	case FormatJSON:
		return e.exportJSON(results, w)
	case FormatPDF:
		return e.exportPDF(results, w)
	case FormatXLSX:
		return e.exportXLSX(results, w)
	default:
		return &FormatError{Format: string(format)}
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format Format) string {
	switch format {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Filename returns the download filename for a format.
func Filename(format Format) string {
	switch format {
	case FormatText:
		return "transcripts.txt"
	case FormatJSON:
		return "discovery_report.json"
	case FormatPDF:
		return "discovery_report.pdf"
	case FormatXLSX:
		return "entity_report.xlsx"
	default:
		return "export"
	}
}

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", &FormatError{Format: s}
	}
}

// exportText concatenates transcripts with per-file separators.
func (e *Exporter) exportText(results []model.TranscriptionResult, w io.Writer) error {
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return fmt.Errorf("failed to write text export: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "--- %s ---\n%s", r.Filename, r.Text); err != nil {
			return fmt.Errorf("failed to write text export: %w", err)
		}
	}
	return nil
}

// exportJSON writes one result as an object and several as an array, using
// the schema {text, segments:[{speaker,start,end,text}],
// entities:[{type,text,start,end}]} plus result metadata.
func (e *Exporter) exportJSON(results []model.TranscriptionResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if len(results) == 1 {
		return encoder.Encode(results[0])
	}
	return encoder.Encode(results)
}

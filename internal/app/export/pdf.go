package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-pdf/fpdf"

	"legal-scribe/internal/app/model"
)

// exportPDF writes a discovery report: one page per transcript with an
// entity summary followed by the full text. The core PDF fonts cover cp1252
// only, so the translator replaces anything outside it.
func (e *Exporter) exportPDF(results []model.TranscriptionResult, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for _, r := range results {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, translate(fmt.Sprintf("Transcript Report: %s", r.Filename)), "", 1, "", false, 0, "")
		pdf.Ln(5)

		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Summary of Entities:", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 11)

		counts := r.EntityCounts()
		types := make([]model.EntityType, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			pdf.CellFormat(0, 8, translate(fmt.Sprintf("- %s: %d", t, counts[t])), "", 1, "", false, 0, "")
		}
		if len(types) == 0 {
			pdf.CellFormat(0, 8, "- none detected", "", 1, "", false, 0, "")
		}

		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Full Transcript:", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, translate(r.Text), "", "", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF export: %w", err)
	}
	return nil
}

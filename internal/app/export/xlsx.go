package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"legal-scribe/internal/app/model"
)

// exportXLSX writes a workbook with one transcript overview sheet and one
// sheet listing every detected entity.
func (e *Exporter) exportXLSX(results []model.TranscriptionResult, w io.Writer) error {
	file := xlsx.NewFile()

	transcripts, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("failed to create transcripts sheet: %w", err)
	}

	headerRow := transcripts.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "File"
	headerRow.AddCell().Value = "Provider"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Duration"
	headerRow.AddCell().Value = "Speakers"
	headerRow.AddCell().Value = "Entities"
	headerRow.AddCell().Value = "Transcript"

	for _, r := range results {
		row := transcripts.AddRow()
		row.AddCell().Value = r.ID
		row.AddCell().Value = r.Filename
		row.AddCell().Value = r.Provider
		row.AddCell().Value = r.Language
		row.AddCell().Value = fmt.Sprintf("%.2f", r.Duration)
		row.AddCell().Value = fmt.Sprint(len(r.Speakers()))
		row.AddCell().Value = fmt.Sprint(len(r.Entities))
		row.AddCell().Value = r.Text
	}

	entities, err := file.AddSheet("Entities")
	if err != nil {
		return fmt.Errorf("failed to create entities sheet: %w", err)
	}

	entityHeader := entities.AddRow()
	entityHeader.AddCell().Value = "File"
	entityHeader.AddCell().Value = "Type"
	entityHeader.AddCell().Value = "Text"
	entityHeader.AddCell().Value = "Start"
	entityHeader.AddCell().Value = "End"

	for _, r := range results {
		for _, ent := range r.Entities {
			row := entities.AddRow()
			row.AddCell().Value = r.Filename
			row.AddCell().Value = string(ent.Type)
			row.AddCell().Value = ent.Text
			row.AddCell().Value = fmt.Sprintf("%.2f", ent.Start)
			row.AddCell().Value = fmt.Sprintf("%.2f", ent.End)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX export: %w", err)
	}
	return nil
}

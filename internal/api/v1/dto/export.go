package dto

import (
	"legal-scribe/internal/app/export"
)

// ExportQuery selects the export format for a download.
type ExportQuery struct {
	Format string `form:"format"`
}

// Validate resolves the format, defaulting to text.
func (q *ExportQuery) Validate() error {
	if q.Format == "" {
		q.Format = string(export.FormatText)
	}
	_, err := export.ParseFormat(q.Format)
	return err
}

// ResolvedFormat returns the parsed export format. Validate must have
// succeeded first.
func (q *ExportQuery) ResolvedFormat() export.Format {
	f, _ := export.ParseFormat(q.Format)
	return f
}

package services

import (
	"io"

	"go.uber.org/zap"

	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/model"
)

// DefaultExportService implements ExportService on the stateless exporter.
type DefaultExportService struct {
	exporter *export.Exporter
	logger   *zap.Logger
}

// NewExportService creates an export service.
func NewExportService(exporter *export.Exporter, logger *zap.Logger) *DefaultExportService {
	return &DefaultExportService{
		exporter: exporter,
		logger:   logger,
	}
}

// Export writes the results to w in the requested format.
func (s *DefaultExportService) Export(results []model.TranscriptionResult, format export.Format, w io.Writer) error {
	if err := s.exporter.Export(results, format, w); err != nil {
		return err
	}
	s.logger.Info("export generated",
		zap.String("format", string(format)),
		zap.Int("transcriptions", len(results)),
	)
	return nil
}

package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legal-scribe/internal/api/middleware"
	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/api/v1/services"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/model"
)

// ExportHandler streams export downloads.
type ExportHandler struct {
	sessions       services.SessionService
	transcriptions services.TranscriptionService
	exports        services.ExportService
	logger         *zap.Logger
}

// NewExportHandler creates an export handler.
func NewExportHandler(
	sessions services.SessionService,
	transcriptions services.TranscriptionService,
	exports services.ExportService,
	logger *zap.Logger,
) *ExportHandler {
	return &ExportHandler{
		sessions:       sessions,
		transcriptions: transcriptions,
		exports:        exports,
		logger:         logger,
	}
}

// ExportOne downloads a single transcription.
// GET /api/v1/transcriptions/:id/export?format=text|json|pdf|xlsx
func (h *ExportHandler) ExportOne(c *gin.Context) {
	sess, err := currentSession(c, h.sessions)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.transcriptions.Get(sess, c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	h.serve(c, []model.TranscriptionResult{result})
}

// ExportAll downloads every transcription in the session as one report.
// GET /api/v1/export?format=text|json|pdf|xlsx
func (h *ExportHandler) ExportAll(c *gin.Context) {
	sess, err := currentSession(c, h.sessions)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	h.serve(c, h.transcriptions.List(sess))
}

// serve renders the export into a buffer first so a late failure becomes a
// JSON error instead of a truncated download.
func (h *ExportHandler) serve(c *gin.Context, results []model.TranscriptionResult) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	format := query.ResolvedFormat()

	var buf bytes.Buffer
	if err := h.exports.Export(results, format, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format)))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legal-scribe/internal/api/errors"
	"legal-scribe/internal/api/middleware"
	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/api/v1/services"
	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/render"
)

// TranscriptionHandler handles audio uploads and result retrieval.
type TranscriptionHandler struct {
	sessions       services.SessionService
	transcriptions services.TranscriptionService
	logger         *zap.Logger
}

// NewTranscriptionHandler creates a transcription handler.
func NewTranscriptionHandler(
	sessions services.SessionService,
	transcriptions services.TranscriptionService,
	logger *zap.Logger,
) *TranscriptionHandler {
	return &TranscriptionHandler{
		sessions:       sessions,
		transcriptions: transcriptions,
		logger:         logger,
	}
}

// Create accepts a multipart audio upload and transcribes it synchronously.
// The upload is spooled to a temp file that is removed before the response
// is written; nothing about it is kept on disk.
// POST /api/v1/transcriptions
func (h *TranscriptionHandler) Create(c *gin.Context) {
	sess, err := currentSession(c, h.sessions)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.TranscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("invalid form fields"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError(`missing multipart "file" part`))
		return
	}
	if fileHeader.Size == 0 {
		middleware.HandleError(c, errors.NewBadRequestError("uploaded file is empty"))
		return
	}
	if fileHeader.Size > provider.MaxUploadBytes {
		middleware.HandleError(c, &provider.TranscriptionError{
			Code: provider.CodeUploadRejected,
			Message: fmt.Sprintf("file exceeds %dMB upload limit",
				provider.MaxUploadBytes/(1024*1024)),
		})
		return
	}

	tmpPath, err := h.spoolUpload(c, fileHeader)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer os.Remove(tmpPath)

	result, err := h.transcriptions.Transcribe(c.Request.Context(), sess, services.TranscribeInput{
		FilePath:       tmpPath,
		Filename:       filepath.Base(fileHeader.Filename),
		APIKey:         strings.TrimSpace(c.GetHeader(APIKeyHeader)),
		Provider:       req.Provider,
		Language:       req.Language,
		Model:          req.Model,
		Keyterms:       req.KeytermList(),
		Diarize:        req.Diarize,
		DetectEntities: req.DetectEntities,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTranscriptionResponse(result))
}

// List returns the session's transcriptions.
// GET /api/v1/transcriptions
func (h *TranscriptionHandler) List(c *gin.Context) {
	sess, err := currentSession(c, h.sessions)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTranscriptionListResponse(h.transcriptions.List(sess)))
}

// Get returns one transcription with its rendering.
// GET /api/v1/transcriptions/:id
func (h *TranscriptionHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.NewTranscriptionResponse(result))
}

// Render returns the display structure for one transcription: highlighted
// HTML, speaker segments, entity summary.
// GET /api/v1/transcriptions/:id/render
func (h *TranscriptionHandler) Render(c *gin.Context) {
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

	c.JSON(http.StatusOK, render.Render(&result))
}

// spoolUpload writes the upload to a temp file, preserving the extension so
// providers can sniff the format from the path.
func (h *TranscriptionHandler) spoolUpload(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	tmp, err := os.CreateTemp("", "scribe-upload-*"+ext)
	if err != nil {
		return "", errors.NewInternalError("failed to spool upload")
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewInternalError("failed to spool upload")
	}
	return tmpPath, nil
}

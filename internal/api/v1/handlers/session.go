package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legal-scribe/internal/api/errors"
	"legal-scribe/internal/api/middleware"
	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/api/v1/services"
	"legal-scribe/internal/app/session"
)

// SessionHeader carries the session id on every authenticated request.
const SessionHeader = "X-Session-ID"

// APIKeyHeader carries an optional per-request credential that overrides the
// session credential for that call. It is never stored or logged.
const APIKeyHeader = "X-API-Key"

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	sessions services.SessionService
	logger   *zap.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions services.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Create opens a session.
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp := h.sessions.Create(req.APIKey)
	c.JSON(http.StatusCreated, resp)
}

// Get returns session metadata. The credential is never part of it.
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	info, err := h.sessions.Info(c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Delete ends a session, discarding its credential and results. The session
// is named by the path id, or by the X-Session-ID header on the bare route.
// DELETE /api/v1/sessions/:id
// DELETE /api/v1/sessions
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.GetHeader(SessionHeader)
	}
	if id == "" {
		middleware.HandleError(c, errors.NewUnauthorizedError("missing "+SessionHeader+" header"))
		return
	}

	if err := h.sessions.Delete(id); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// currentSession resolves the session named by the request header. Shared by
// every handler that needs an authenticated session.
func currentSession(c *gin.Context, sessions services.SessionService) (*session.Session, error) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		return nil, errors.NewUnauthorizedError("missing " + SessionHeader + " header")
	}
	return sessions.Get(id)
}

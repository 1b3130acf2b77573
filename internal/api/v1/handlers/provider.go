package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legal-scribe/internal/api/errors"
	"legal-scribe/internal/api/middleware"
	"legal-scribe/internal/api/v1/services"
)

// ProviderHandler exposes provider metadata.
type ProviderHandler struct {
	providers services.ProviderService
	logger    *zap.Logger
}

// NewProviderHandler creates a provider handler.
func NewProviderHandler(providers services.ProviderService, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		providers: providers,
		logger:    logger,
	}
}

// List returns the registered providers and their capabilities.
// GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.providers.List())
}

// Get returns one provider's capabilities.
// GET /api/v1/providers/:id
func (h *ProviderHandler) Get(c *gin.Context) {
	name := c.Param("id")
	info, err := h.providers.Get(name)
	if err != nil {
		middleware.HandleError(c, errors.NewNotFoundError("provider "+name))
		return
	}
	c.JSON(http.StatusOK, info)
}

// Health runs health checks across all providers.
// GET /api/v1/providers/health
func (h *ProviderHandler) Health(c *gin.Context) {
	resp := h.providers.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if !resp.Healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legal-scribe/internal/api/middleware"
	"legal-scribe/internal/api/v1/handlers"
	"legal-scribe/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	SessionService       services.SessionService
	TranscriptionService services.TranscriptionService
	ExportService        services.ExportService
	ProviderService      services.ProviderService
	Logger               *zap.Logger
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	router.Use(middleware.RequestID())

	// Session routes
	sessionHandler := handlers.NewSessionHandler(container.SessionService, container.Logger)
	sessions := router.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.DELETE("", sessionHandler.Delete)
		sessions.DELETE("/:id", sessionHandler.Delete)
	}

	// Transcription routes
	transcriptionHandler := handlers.NewTranscriptionHandler(
		container.SessionService,
		container.TranscriptionService,
		container.Logger,
	)
	exportHandler := handlers.NewExportHandler(
		container.SessionService,
		container.TranscriptionService,
		container.ExportService,
		container.Logger,
	)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("", transcriptionHandler.Create)
		transcriptions.GET("", transcriptionHandler.List)
		transcriptions.GET("/:id", transcriptionHandler.Get)
		transcriptions.GET("/:id/render", transcriptionHandler.Render)
		transcriptions.GET("/:id/export", exportHandler.ExportOne)
	}

	// Session-wide export
	router.GET("/export", exportHandler.ExportAll)

	// Provider routes
	providerHandler := handlers.NewProviderHandler(container.ProviderService, container.Logger)
	providers := router.Group("/providers")
	{
		providers.GET("", providerHandler.List)
		providers.GET("/health", providerHandler.Health)
		providers.GET("/:id", providerHandler.Get)
	}
}

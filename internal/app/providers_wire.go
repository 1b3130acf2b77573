package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"legal-scribe/internal/api/server"
	v1routes "legal-scribe/internal/api/v1/routes"
	"legal-scribe/internal/api/v1/services"
	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/entity"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/session"
	"legal-scribe/internal/config"
)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func provideMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

func provideProviderMetrics(registry *prometheus.Registry) *provider.Metrics {
	return provider.NewMetrics(registry)
}

func provideProvidersConfig(cfg *config.Config) (*config.ProvidersConfig, error) {
	return config.LoadProvidersFile(cfg.ProvidersFile)
}

// provideProviderRegistry builds every registered provider from its settings
// and deployment-level credential, then applies the configured default. The
// demo provider needs no configuration and is always available.
func provideProviderRegistry(cfg *config.Config, providersCfg *config.ProvidersConfig, logger *zap.Logger) (provider.ProviderRegistry, error) {
	registry := provider.NewProviderRegistry()

	deploymentKeys := map[string]string{
		"elevenlabs": cfg.ElevenLabsAPIKey,
		"openai":     cfg.OpenAIAPIKey,
	}

	for _, name := range provider.ListRegisteredProviders() {
		creator, err := provider.GetProviderCreator(name)
		if err != nil {
			return nil, err
		}

		settings := map[string]interface{}{}
		if s, ok := providersCfg.Providers[name]; ok {
			settings = s.SettingsMap()
		}

		p, err := creator(map[string]interface{}{
			"settings": settings,
			"auth": map[string]interface{}{
				"api_key": deploymentKeys[name],
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create provider %s: %w", name, err)
		}

		if err := registry.RegisterProvider(name, p); err != nil {
			return nil, err
		}
		logger.Info("provider registered", zap.String("provider", name))
	}

	defaultName := providersCfg.Default
	if defaultName == "" {
		defaultName = cfg.DefaultProvider
	}
	if defaultName != "" {
		if err := registry.SetDefaultProvider(defaultName); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// provideEntityDetector selects the fallback extractor. "auto" prefers
// OpenAI, falls back to Gemini, and disables detection when neither key is
// configured. A nil detector means providers' own entities are all we get.
func provideEntityDetector(cfg *config.Config, logger *zap.Logger) entity.Detector {
	switch cfg.EntityDetector {
	case "off":
		return nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("entity detector set to openai but OPENAI_API_KEY is empty; detection disabled")
			return nil
		}
		return entity.NewOpenAIDetector(cfg.OpenAIAPIKey)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("entity detector set to gemini but GEMINI_API_KEY is empty; detection disabled")
			return nil
		}
		return entity.NewGeminiDetector(cfg.GeminiAPIKey)
	default: // auto
		if cfg.OpenAIAPIKey != "" {
			return entity.NewOpenAIDetector(cfg.OpenAIAPIKey)
		}
		if cfg.GeminiAPIKey != "" {
			return entity.NewGeminiDetector(cfg.GeminiAPIKey)
		}
		return nil
	}
}

func provideSessionStore(cfg *config.Config) (*session.Store, func()) {
	store := session.NewStore(cfg.SessionTTL)
	return store, store.Close
}

func provideServiceContainer(
	cfg *config.Config,
	registry provider.ProviderRegistry,
	detector entity.Detector,
	metrics *provider.Metrics,
	store *session.Store,
	logger *zap.Logger,
) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		SessionService:       services.NewSessionService(store, cfg.SessionTTL, logger),
		TranscriptionService: services.NewTranscriptionService(registry, detector, metrics, cfg.DefaultProvider, logger),
		ExportService:        services.NewExportService(export.NewExporter(), logger),
		ProviderService:      services.NewProviderService(registry, cfg.DefaultProvider),
		Logger:               logger,
	}
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		Environment:  cfg.Environment,
	}
}

//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"legal-scribe/internal/api/server"
)

// InitializeServer assembles the API server from the environment: config,
// logger, provider registry, entity detector, session store, services.
func InitializeServer() (*server.Server, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideMetricsRegistry,
		provideProviderMetrics,
		provideProvidersConfig,
		provideProviderRegistry,
		provideEntityDetector,
		provideSessionStore,
		provideServiceContainer,
		provideServerConfig,
		server.NewServer,
	)
	return nil, nil, nil
}

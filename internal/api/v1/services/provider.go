package services

import (
	"context"
	"sort"

	"legal-scribe/internal/api/v1/dto"
	"legal-scribe/internal/app/api/provider"
)

// DefaultProviderService implements ProviderService over the registry.
type DefaultProviderService struct {
	registry        provider.ProviderRegistry
	defaultProvider string
}

// NewProviderService creates a provider service.
func NewProviderService(registry provider.ProviderRegistry, defaultProvider string) *DefaultProviderService {
	return &DefaultProviderService{
		registry:        registry,
		defaultProvider: defaultProvider,
	}
}

// List returns every registered provider's capabilities.
func (s *DefaultProviderService) List() dto.ProviderListResponse {
	names := s.registry.ListProviders()
	sort.Strings(names)

	resp := dto.ProviderListResponse{
		Default:   s.defaultProvider,
		Providers: make([]provider.ProviderInfo, 0, len(names)),
	}
	if resp.Default == "" {
		if p, err := s.registry.GetDefaultProvider(); err == nil {
			resp.Default = p.GetProviderInfo().Name
		}
	}

	for _, name := range names {
		p, err := s.registry.GetProvider(name)
		if err != nil {
			continue
		}
		resp.Providers = append(resp.Providers, p.GetProviderInfo())
	}
	return resp
}

// Get returns one provider's capabilities by name.
func (s *DefaultProviderService) Get(name string) (provider.ProviderInfo, error) {
	p, err := s.registry.GetProvider(name)
	if err != nil {
		return provider.ProviderInfo{}, err
	}
	return p.GetProviderInfo(), nil
}

// HealthCheck runs health checks across all providers.
func (s *DefaultProviderService) HealthCheck(ctx context.Context) dto.ProviderHealthResponse {
	resp := dto.ProviderHealthResponse{
		Healthy: true,
		Results: make(map[string]string),
	}
	for name, err := range s.registry.HealthCheckAll(ctx) {
		if err != nil {
			resp.Healthy = false
			resp.Results[name] = err.Error()
		} else {
			resp.Results[name] = "ok"
		}
	}
	return resp
}

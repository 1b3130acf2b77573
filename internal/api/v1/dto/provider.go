package dto

import (
	"legal-scribe/internal/app/api/provider"
)

// ProviderListResponse lists the registered transcription providers.
type ProviderListResponse struct {
	Default   string                  `json:"default"`
	Providers []provider.ProviderInfo `json:"providers"`
}

// ProviderHealthResponse reports per-provider health check results.
type ProviderHealthResponse struct {
	Healthy bool              `json:"healthy"`
	Results map[string]string `json:"results"`
}

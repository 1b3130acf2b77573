package provider

import (
	"context"
)

// TranscriptionProvider is the contract every speech-to-text vendor
// integration implements. Implementations must be safe for concurrent use.
type TranscriptionProvider interface {
	// Transcribe issues one synchronous call to the vendor and returns the
	// parsed result. No retries are performed; failures come back as
	// *TranscriptionError for the caller to surface.
	Transcribe(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// GetProviderInfo reports the provider's capabilities.
	GetProviderInfo() ProviderInfo

	// ValidateConfiguration checks static configuration (not the per-request
	// credential, which arrives with each TranscriptionRequest).
	ValidateConfiguration() error

	// HealthCheck verifies the provider is reachable and configured.
	HealthCheck(ctx context.Context) error
}

// ProviderRegistry manages the set of available transcription providers.
type ProviderRegistry interface {
	// Register a provider under a unique name.
	RegisterProvider(name string, provider TranscriptionProvider) error

	// Get a provider by name.
	GetProvider(name string) (TranscriptionProvider, error)

	// List all registered provider names.
	ListProviders() []string

	// Get the default provider.
	GetDefaultProvider() (TranscriptionProvider, error)

	// Set the default provider.
	SetDefaultProvider(name string) error

	// Health check all providers.
	HealthCheckAll(ctx context.Context) map[string]error
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderSettings are the per-provider defaults loaded from the optional
// providers file. Credentials do not belong here; they come from the
// environment or arrive with each request.
type ProviderSettings struct {
	BaseURL    string `yaml:"base_url,omitempty"`
	Model      string `yaml:"model,omitempty"`
	TimeoutSec int    `yaml:"timeout_sec,omitempty"`
}

// ProvidersConfig is the parsed providers file.
type ProvidersConfig struct {
	Default   string                      `yaml:"default,omitempty"`
	Providers map[string]ProviderSettings `yaml:"providers,omitempty"`
}

// LoadProvidersFile reads provider defaults from a YAML file. An empty path
// returns an empty configuration.
func LoadProvidersFile(path string) (*ProvidersConfig, error) {
	if path == "" {
		return &ProvidersConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file %s: %w", path, err)
	}

	cfg := &ProvidersConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse providers file %s: %w", path, err)
	}

	return cfg, nil
}

// SettingsMap converts one provider's settings into the generic map consumed
// by provider creator functions.
func (s ProviderSettings) SettingsMap() map[string]interface{} {
	settings := make(map[string]interface{})
	if s.BaseURL != "" {
		settings["base_url"] = s.BaseURL
	}
	if s.Model != "" {
		settings["model"] = s.Model
	}
	if s.TimeoutSec != 0 {
		settings["timeout_sec"] = s.TimeoutSec
	}
	return settings
}

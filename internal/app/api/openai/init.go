package openai

import (
	"legal-scribe/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("openai", createWhisperProvider)
}

func createWhisperProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = make(map[string]interface{})
	}

	auth, ok := config["auth"].(map[string]interface{})
	if !ok {
		auth = make(map[string]interface{})
	}
	apiKey, _ := auth["api_key"].(string)

	return NewWhisperProviderFromSettings(settings, apiKey)
}

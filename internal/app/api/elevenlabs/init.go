package elevenlabs

import (
	"legal-scribe/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("elevenlabs", createScribeProvider)
}

func createScribeProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = make(map[string]interface{})
	}

	// A deployment-level key is optional; users normally bring their own.
	auth, ok := config["auth"].(map[string]interface{})
	if !ok {
		auth = make(map[string]interface{})
	}
	apiKey, _ := auth["api_key"].(string)

	return NewScribeProviderFromSettings(settings, apiKey)
}

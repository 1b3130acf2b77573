package demo

import (
	"legal-scribe/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("demo", createDemoProvider)
}

func createDemoProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	return NewProvider(), nil
}

package entity

import (
	"context"

	"legal-scribe/internal/app/model"
)

// MockDetector is a test detector with programmable results.
type MockDetector struct {
	Entities []model.Entity
	Err      error
	Calls    int
	LastText string
}

// Detect returns the programmed entities or error.
func (m *MockDetector) Detect(ctx context.Context, text string, keyterms []string) ([]model.Entity, error) {
	m.Calls++
	m.LastText = text
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entities, nil
}

// Name identifies the detector.
func (m *MockDetector) Name() string {
	return "mock"
}

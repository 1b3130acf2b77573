package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legal-scribe/internal/app/api/demo"
	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/entity"
	"legal-scribe/internal/app/model"
	"legal-scribe/internal/app/session"
)

// stubProvider returns a fixed response with no entities, standing in for a
// vendor without entity support.
type stubProvider struct {
	response *provider.TranscriptionResponse
	err      error
	lastReq  *provider.TranscriptionRequest
}

func (s *stubProvider) Transcribe(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	s.lastReq = request
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{Name: "stub"}
}

func (s *stubProvider) ValidateConfiguration() error { return nil }

func (s *stubProvider) HealthCheck(ctx context.Context) error { return nil }

func newService(t *testing.T, stub *stubProvider, detector entity.Detector) (*DefaultTranscriptionService, *session.Session) {
	t.Helper()

	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("stub", stub))

	store := session.NewStore(time.Minute)
	t.Cleanup(store.Close)
	sess := store.Create("sk_session_key")

	metrics := provider.NewMetrics(prometheus.NewRegistry())
	svc := NewTranscriptionService(registry, detector, metrics, "stub", zap.NewNop())
	return svc, sess
}

func audioInput() TranscribeInput {
	return TranscribeInput{
		FilePath: filepath.Join("testdata", "sample.mp3"),
		Filename: "sample.mp3",
	}
}

func TestTranscribeStoresResult(t *testing.T) {
	stub := &stubProvider{response: &provider.TranscriptionResponse{
		Text:     "hello world",
		Language: "en",
		Duration: 3.2,
	}}
	svc, sess := newService(t, stub, nil)

	input := audioInput()
	input.Keyterms = []string{"MSA"}
	input.Diarize = true

	result, err := svc.Transcribe(context.Background(), sess, input)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "hello world", result.Text)
	assert.Equal(t, "stub", result.Provider)
	assert.True(t, result.Diarized)
	assert.Equal(t, []string{"MSA"}, result.Keyterms)

	assert.Equal(t, 1, sess.ResultCount())
	stored, err := svc.Get(sess, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Text, stored.Text)

	t.Run("session credential reaches the provider", func(t *testing.T) {
		assert.Equal(t, "sk_session_key", stub.lastReq.APIKey)
	})
}

func TestTranscribeEntityFallback(t *testing.T) {
	t.Run("detector fills in missing entities", func(t *testing.T) {
		stub := &stubProvider{response: &provider.TranscriptionResponse{Text: "John spoke"}}
		detector := &entity.MockDetector{
			Entities: []model.Entity{{Type: model.EntityPerson, Text: "John"}},
		}
		svc, sess := newService(t, stub, detector)

		input := audioInput()
		input.DetectEntities = true

		result, err := svc.Transcribe(context.Background(), sess, input)
		require.NoError(t, err)
		require.Len(t, result.Entities, 1)
		assert.Equal(t, "John", result.Entities[0].Text)
		assert.Equal(t, 1, detector.Calls)
	})

	t.Run("provider entities win over the detector", func(t *testing.T) {
		stub := &stubProvider{response: &provider.TranscriptionResponse{
			Text:     "John spoke",
			Entities: []model.Entity{{Type: model.EntityPerson, Text: "from provider"}},
		}}
		detector := &entity.MockDetector{}
		svc, sess := newService(t, stub, detector)

		input := audioInput()
		input.DetectEntities = true

		result, err := svc.Transcribe(context.Background(), sess, input)
		require.NoError(t, err)
		assert.Equal(t, "from provider", result.Entities[0].Text)
		assert.Zero(t, detector.Calls)
	})

	t.Run("detector failure degrades to no entities", func(t *testing.T) {
		stub := &stubProvider{response: &provider.TranscriptionResponse{Text: "John spoke"}}
		detector := &entity.MockDetector{Err: errors.New("model unavailable")}
		svc, sess := newService(t, stub, detector)

		input := audioInput()
		input.DetectEntities = true

		result, err := svc.Transcribe(context.Background(), sess, input)
		require.NoError(t, err, "transcription succeeds even when detection fails")
		assert.Empty(t, result.Entities)
	})

	t.Run("detector skipped when detection not requested", func(t *testing.T) {
		stub := &stubProvider{response: &provider.TranscriptionResponse{Text: "John spoke"}}
		detector := &entity.MockDetector{}
		svc, sess := newService(t, stub, detector)

		_, err := svc.Transcribe(context.Background(), sess, audioInput())
		require.NoError(t, err)
		assert.Zero(t, detector.Calls)
	})
}

func TestTranscribeFailures(t *testing.T) {
	t.Run("provider error is passed through", func(t *testing.T) {
		stub := &stubProvider{err: &provider.TranscriptionError{
			Code:     provider.CodeAuthenticationFailed,
			Message:  "bad key",
			Provider: "stub",
		}}
		svc, sess := newService(t, stub, nil)

		_, err := svc.Transcribe(context.Background(), sess, audioInput())
		var provErr *provider.TranscriptionError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, provider.CodeAuthenticationFailed, provErr.Code)
		assert.Equal(t, 0, sess.ResultCount(), "failed runs are not stored")
	})

	t.Run("unsupported extension is rejected before the provider", func(t *testing.T) {
		stub := &stubProvider{}
		svc, sess := newService(t, stub, nil)

		input := audioInput()
		input.Filename = "notes.txt"

		_, err := svc.Transcribe(context.Background(), sess, input)
		var provErr *provider.TranscriptionError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, provider.CodeUploadRejected, provErr.Code)
		assert.Nil(t, stub.lastReq)
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		svc, sess := newService(t, &stubProvider{}, nil)

		input := audioInput()
		input.Provider = "missing"

		_, err := svc.Transcribe(context.Background(), sess, input)
		var provErr *provider.TranscriptionError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, provider.CodeUploadRejected, provErr.Code)
	})
}

func TestTranscribeCredentialPrecedence(t *testing.T) {
	t.Run("per-request key overrides the session credential", func(t *testing.T) {
		stub := &stubProvider{response: &provider.TranscriptionResponse{Text: "hi"}}
		svc, sess := newService(t, stub, nil)

		input := audioInput()
		input.APIKey = "sk_request_key"

		_, err := svc.Transcribe(context.Background(), sess, input)
		require.NoError(t, err)
		assert.Equal(t, "sk_request_key", stub.lastReq.APIKey)
	})

	t.Run("per-request key on a keyless session avoids demo fallback", func(t *testing.T) {
		registry := provider.NewProviderRegistry()
		stub := &stubProvider{response: &provider.TranscriptionResponse{Text: "hi"}}
		require.NoError(t, registry.RegisterProvider("stub", stub))
		require.NoError(t, registry.RegisterProvider("demo", &demo.Provider{Delay: 0}))

		store := session.NewStore(time.Minute)
		t.Cleanup(store.Close)
		sess := store.Create("") // no session credential

		metrics := provider.NewMetrics(prometheus.NewRegistry())
		svc := NewTranscriptionService(registry, nil, metrics, "stub", zap.NewNop())

		input := audioInput()
		input.APIKey = "sk_request_key"

		result, err := svc.Transcribe(context.Background(), sess, input)
		require.NoError(t, err)
		assert.Equal(t, "stub", result.Provider)
		assert.Equal(t, "sk_request_key", stub.lastReq.APIKey)
	})
}

func TestResolveProviderDemoFallback(t *testing.T) {
	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("demo", &demo.Provider{Delay: 0}))

	store := session.NewStore(time.Minute)
	t.Cleanup(store.Close)
	sess := store.Create("") // no credential

	metrics := provider.NewMetrics(prometheus.NewRegistry())
	svc := NewTranscriptionService(registry, nil, metrics, "elevenlabs", zap.NewNop())

	input := audioInput()
	result, err := svc.Transcribe(context.Background(), sess, input)
	require.NoError(t, err)
	assert.Equal(t, "demo", result.Provider, "credential-less session falls back to demo mode")
}

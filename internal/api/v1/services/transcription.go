package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/entity"
	"legal-scribe/internal/app/model"
	"legal-scribe/internal/app/session"
)

// DefaultTranscriptionService implements TranscriptionService against the
// provider registry, with an optional LLM detector as the entity fallback.
type DefaultTranscriptionService struct {
	registry        provider.ProviderRegistry
	detector        entity.Detector
	metrics         *provider.Metrics
	defaultProvider string
	logger          *zap.Logger
}

// NewTranscriptionService creates a transcription service. detector may be
// nil when no fallback detector is configured.
func NewTranscriptionService(
	registry provider.ProviderRegistry,
	detector entity.Detector,
	metrics *provider.Metrics,
	defaultProvider string,
	logger *zap.Logger,
) *DefaultTranscriptionService {
	return &DefaultTranscriptionService{
		registry:        registry,
		detector:        detector,
		metrics:         metrics,
		defaultProvider: defaultProvider,
		logger:          logger,
	}
}

// Transcribe runs one upload through the chosen provider and stores the
// result in the session. The credential resolves per-request key first,
// then the session credential, and reaches the provider for this call only.
func (s *DefaultTranscriptionService) Transcribe(ctx context.Context, sess *session.Session, input TranscribeInput) (model.TranscriptionResult, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(input.Filename)), ".")
	if !provider.IsValidAudioFormat(ext) {
		return model.TranscriptionResult{}, &provider.TranscriptionError{
			Code:     provider.CodeUploadRejected,
			Message:  fmt.Sprintf("unsupported audio format: %q", ext),
			Provider: input.Provider,
			Suggestions: []string{
				"upload one of: wav, mp3, m4a, flac, ogg, webm",
			},
		}
	}

	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = sess.Credential()
	}

	name, p, err := s.resolveProvider(apiKey, input.Provider)
	if err != nil {
		return model.TranscriptionResult{}, err
	}

	req := &provider.TranscriptionRequest{
		InputFilePath:  input.FilePath,
		Filename:       input.Filename,
		APIKey:         apiKey,
		Language:       input.Language,
		Model:          input.Model,
		Keyterms:       input.Keyterms,
		Diarize:        input.Diarize,
		DetectEntities: input.DetectEntities,
	}

	start := time.Now()
	resp, err := p.Transcribe(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		code := "unknown"
		var provErr *provider.TranscriptionError
		if e, ok := err.(*provider.TranscriptionError); ok {
			provErr = e
			code = e.Code
		}
		s.metrics.RecordFailure(name, code, elapsed.Seconds())
		s.logger.Warn("transcription failed",
			zap.String("provider", name),
			zap.String("filename", input.Filename),
			zap.String("code", code),
			zap.Duration("elapsed", elapsed),
		)
		if provErr != nil {
			return model.TranscriptionResult{}, provErr
		}
		return model.TranscriptionResult{}, err
	}
	s.metrics.RecordSuccess(name, elapsed.Seconds(), resp.Duration)

	entities := resp.Entities
	if input.DetectEntities && len(entities) == 0 && s.detector != nil {
		detected, derr := s.detector.Detect(ctx, resp.Text, input.Keyterms)
		if derr != nil {
			// Entity detection is best effort: the transcript still stands.
			s.logger.Warn("entity detection failed",
				zap.String("detector", s.detector.Name()),
				zap.String("filename", input.Filename),
				zap.Error(derr),
			)
		} else {
			entities = detected
		}
	}

	result := model.TranscriptionResult{
		ID:        uuid.New().String(),
		Filename:  input.Filename,
		Text:      resp.Text,
		Language:  resp.Language,
		Segments:  resp.Segments,
		Entities:  entities,
		Keyterms:  input.Keyterms,
		Diarized:  input.Diarize,
		Provider:  name,
		Duration:  resp.Duration,
		CreatedAt: time.Now(),
	}
	sess.AddResult(result)

	s.logger.Info("transcription completed",
		zap.String("provider", name),
		zap.String("transcription_id", result.ID),
		zap.String("filename", input.Filename),
		zap.Float64("audio_seconds", result.Duration),
		zap.Int("entities", len(result.Entities)),
		zap.Duration("elapsed", elapsed),
	)

	return result, nil
}

// Get returns one stored transcription from the session.
func (s *DefaultTranscriptionService) Get(sess *session.Session, id string) (model.TranscriptionResult, error) {
	return sess.Result(id)
}

// List returns the session's transcriptions in arrival order.
func (s *DefaultTranscriptionService) List(sess *session.Session) []model.TranscriptionResult {
	return sess.Results()
}

// resolveProvider picks the provider for a request: the explicit choice if
// given, demo mode when no credential resolved, otherwise the configured
// default.
func (s *DefaultTranscriptionService) resolveProvider(apiKey, requested string) (string, provider.TranscriptionProvider, error) {
	name := requested
	if name == "" {
		if apiKey == "" {
			name = "demo"
		} else {
			name = s.defaultProvider
		}
	}

	if name == "" {
		p, err := s.registry.GetDefaultProvider()
		if err != nil {
			return "", nil, err
		}
		return p.GetProviderInfo().Name, p, nil
	}

	p, err := s.registry.GetProvider(name)
	if err != nil {
		return "", nil, &provider.TranscriptionError{
			Code:     provider.CodeUploadRejected,
			Message:  fmt.Sprintf("unknown provider: %q", name),
			Provider: name,
		}
	}
	return name, p, nil
}

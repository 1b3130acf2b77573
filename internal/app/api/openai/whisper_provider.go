package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/model"
)

// WhisperProvider implements the TranscriptionProvider interface on the
// OpenAI audio transcription API. Whisper returns time-aligned segments but
// no speaker labels or entity spans; entity detection is handled downstream.
type WhisperProvider struct {
	config Config
}

// Config represents configuration for the OpenAI Whisper provider.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout_sec"`
}

// NewWhisperProvider creates a new OpenAI Whisper provider
func NewWhisperProvider(config Config) *WhisperProvider {
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.Timeout == 0 {
		config.Timeout = 120
	}
	return &WhisperProvider{config: config}
}

// NewWhisperProviderFromSettings creates a provider from generic settings
func NewWhisperProviderFromSettings(settings map[string]interface{}, apiKey string) (*WhisperProvider, error) {
	config := Config{
		APIKey: apiKey,
	}

	if baseURL, ok := settings["base_url"].(string); ok {
		config.BaseURL = baseURL
	}
	if m, ok := settings["model"].(string); ok {
		config.Model = m
	}
	if timeout, ok := settings["timeout_sec"].(int); ok {
		config.Timeout = timeout
	}

	return NewWhisperProvider(config), nil
}

// newClient builds a go-openai client for one call. The client is rebuilt per
// request because the credential travels with the request.
func (w *WhisperProvider) newClient(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if w.config.BaseURL != "" {
		cfg.BaseURL = w.config.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Timeout: time.Duration(w.config.Timeout) * time.Second,
	}
	return openai.NewClientWithConfig(cfg)
}

// Transcribe issues one synchronous transcription call.
func (w *WhisperProvider) Transcribe(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	fileInfo, err := os.Stat(request.InputFilePath)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "openai",
			Retryable: false,
		}
	}
	if fileInfo.Size() == 0 {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   "audio file is empty",
			Provider:  "openai",
			Retryable: false,
		}
	}
	if fileInfo.Size() > provider.MaxUploadBytes {
		return nil, &provider.TranscriptionError{
			Code:        provider.CodeUploadRejected,
			Message:     "file size exceeds 25MB limit",
			Provider:    "openai",
			Retryable:   false,
			Suggestions: []string{"Reduce file size", "Split into smaller chunks"},
		}
	}

	apiKey := request.APIKey
	if apiKey == "" {
		apiKey = w.config.APIKey
	}
	if apiKey == "" {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeAuthenticationFailed,
			Message:   "no OpenAI API key supplied",
			Provider:  "openai",
			Retryable: false,
		}
	}

	req := openai.AudioRequest{
		Model:    w.getModel(request),
		FilePath: request.InputFilePath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if request.Language != "" && request.Language != "auto" {
		req.Language = request.Language
	}
	// Whisper has no keyterm parameter; hints travel through the prompt.
	if len(request.Keyterms) > 0 {
		req.Prompt = strings.Join(request.Keyterms, ", ")
	}

	resp, err := w.newClient(apiKey).CreateTranscription(ctx, req)
	if err != nil {
		return nil, w.convertError(err)
	}

	segments := make([]model.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, model.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  text,
		})
	}

	return &provider.TranscriptionResponse{
		Text:           resp.Text,
		Language:       resp.Language,
		Segments:       segments,
		Duration:       resp.Duration,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      w.getModel(request),
		ProviderMetadata: map[string]interface{}{
			"file_size":     fileInfo.Size(),
			"segment_count": len(segments),
		},
	}, nil
}

// convertError maps go-openai errors onto the shared provider error codes.
func (w *WhisperProvider) convertError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &provider.TranscriptionError{
				Code:      provider.CodeAuthenticationFailed,
				Message:   "OpenAI API key is invalid or missing",
				Provider:  "openai",
				Retryable: false,
			}
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return &provider.TranscriptionError{
				Code:      provider.CodeUploadRejected,
				Message:   fmt.Sprintf("OpenAI rejected the audio: %s", apiErr.Message),
				Provider:  "openai",
				Retryable: false,
			}
		default:
			return &provider.TranscriptionError{
				Code:      provider.CodeServiceError,
				Message:   fmt.Sprintf("OpenAI API error: %s", apiErr.Message),
				Provider:  "openai",
				Retryable: apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == http.StatusTooManyRequests,
			}
		}
	}

	return &provider.TranscriptionError{
		Code:      provider.CodeNetworkError,
		Message:   fmt.Sprintf("failed to call OpenAI API: %v", err),
		Provider:  "openai",
		Retryable: true,
	}
}

func (w *WhisperProvider) getModel(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return w.config.Model
}

// GetProviderInfo reports the Whisper provider capabilities.
func (w *WhisperProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "openai",
		DisplayName: "OpenAI Whisper",
		Type:        provider.ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3,
			provider.FormatWAV,
			provider.FormatM4A,
			provider.FormatFLAC,
			provider.FormatOGG,
			provider.FormatWEBM,
		},
		MaxFileSizeMB:           25,
		SupportsDiarization:     false,
		SupportsEntityDetection: false,
		SupportsKeyterms:        true,
		SupportsTimestamps:      true,
		RequiresInternet:        true,
		RequiresAPIKey:          true,
		DefaultModel:            openai.Whisper1,
		AvailableModels:         []string{openai.Whisper1},
	}
}

// ValidateConfiguration validates the provider configuration
func (w *WhisperProvider) ValidateConfiguration() error {
	if w.config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if w.config.APIKey != "" && !strings.HasPrefix(w.config.APIKey, "sk-") {
		return fmt.Errorf("OpenAI API key format appears to be invalid")
	}
	return nil
}

// HealthCheck performs a basic configuration check. A live probe would spend
// tokens, so only static validation happens here.
func (w *WhisperProvider) HealthCheck(ctx context.Context) error {
	return w.ValidateConfiguration()
}

package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/model"
)

// ScribeProvider implements the TranscriptionProvider interface for the
// ElevenLabs Scribe speech-to-text API.
type ScribeProvider struct {
	config Config
	client *http.Client
}

// Config represents configuration for the ElevenLabs Scribe provider.
// APIKey is an optional deployment-level default; the per-request credential
// takes precedence.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout_sec"`
}

// scribeResponse represents the response from the ElevenLabs Scribe API
type scribeResponse struct {
	LanguageCode        string         `json:"language_code,omitempty"`
	LanguageProbability float64        `json:"language_probability,omitempty"`
	Text                string         `json:"text"`
	Words               []scribeWord   `json:"words,omitempty"`
	Entities            []scribeEntity `json:"entities,omitempty"`
}

// scribeWord is one token of the word-level alignment. Type is "word",
// "spacing", or "audio_event"; SpeakerID is set when diarization is on.
type scribeWord struct {
	Text      string  `json:"text"`
	Type      string  `json:"type,omitempty"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID string  `json:"speaker_id,omitempty"`
}

type scribeEntity struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	StartTime float64 `json:"start_time,omitempty"`
	EndTime   float64 `json:"end_time,omitempty"`
}

// NewScribeProvider creates a new ElevenLabs Scribe provider
func NewScribeProvider(config Config) *ScribeProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if config.Model == "" {
		config.Model = "scribe_v2"
	}
	if config.Timeout == 0 {
		config.Timeout = 120
	}

	return &ScribeProvider{
		config: config,
		client: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// NewScribeProviderFromSettings creates a provider from generic settings
func NewScribeProviderFromSettings(settings map[string]interface{}, apiKey string) (*ScribeProvider, error) {
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

	return NewScribeProvider(config), nil
}

// Transcribe issues one synchronous speech-to-text call.
func (el *ScribeProvider) Transcribe(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   "input file path is required",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	fileInfo, err := os.Stat(request.InputFilePath)
	if os.IsNotExist(err) {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	if fileInfo.Size() == 0 {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   "audio file is empty",
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	if fileInfo.Size() > provider.MaxUploadBytes {
		return nil, &provider.TranscriptionError{
			Code:        provider.CodeUploadRejected,
			Message:     "file size exceeds 25MB limit",
			Provider:    "elevenlabs",
			Retryable:   false,
			Suggestions: []string{"Reduce file size", "Split into smaller chunks"},
		}
	}

	if el.apiKey(request) == "" {
		return nil, &provider.TranscriptionError{
			Code:        provider.CodeAuthenticationFailed,
			Message:     "no ElevenLabs API key supplied",
			Provider:    "elevenlabs",
			Retryable:   false,
			Suggestions: []string{"Provide an API key with the request or configure a default"},
		}
	}

	httpReq, err := el.createHTTPRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	resp, err := el.client.Do(httpReq)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeNetworkError,
			Message:   fmt.Sprintf("failed to call ElevenLabs API: %v", err),
			Provider:  "elevenlabs",
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, el.handleHTTPError(resp)
	}

	var scribeResp scribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&scribeResp); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeServiceError,
			Message:   fmt.Sprintf("failed to parse API response: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	segments := segmentsFromWords(scribeResp.Words)

	response := &provider.TranscriptionResponse{
		Text:           scribeResp.Text,
		Language:       scribeResp.LanguageCode,
		Segments:       segments,
		Entities:       convertEntities(scribeResp.Entities),
		Duration:       audioDuration(scribeResp.Words),
		ProcessingTime: time.Since(startTime),
		ModelUsed:      el.getModel(request),
		ProviderMetadata: map[string]interface{}{
			"file_size":            fileInfo.Size(),
			"language_probability": scribeResp.LanguageProbability,
			"word_count":           len(scribeResp.Words),
		},
	}

	return response, nil
}

// createHTTPRequest creates the multipart HTTP request for the Scribe API
func (el *ScribeProvider) createHTTPRequest(ctx context.Context, request *provider.TranscriptionRequest) (*http.Request, error) {
	file, err := os.Open(request.InputFilePath)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   fmt.Sprintf("failed to open audio file: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(request.InputFilePath))
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   fmt.Sprintf("failed to create form: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   fmt.Sprintf("failed to copy file data: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	fields := map[string]string{
		"model_id":         el.getModel(request),
		"diarize":          strconv.FormatBool(request.Diarize),
		"detect_entities":  strconv.FormatBool(request.DetectEntities),
		"tag_audio_events": "false",
	}
	if request.Language != "" && request.Language != "auto" {
		fields["language_code"] = request.Language
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, &provider.TranscriptionError{
				Code:      provider.CodeUploadRejected,
				Message:   fmt.Sprintf("failed to add %s field: %v", name, err),
				Provider:  "elevenlabs",
				Retryable: false,
			}
		}
	}

	// Keyterm prompting: one repeated field per hint, forwarded verbatim.
	for _, term := range request.Keyterms {
		if err := writer.WriteField("transcription_hints", term); err != nil {
			return nil, &provider.TranscriptionError{
				Code:      provider.CodeUploadRejected,
				Message:   fmt.Sprintf("failed to add transcription hint: %v", err),
				Provider:  "elevenlabs",
				Retryable: false,
			}
		}
	}

	writer.Close()

	url := fmt.Sprintf("%s/speech-to-text", el.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      provider.CodeNetworkError,
			Message:   fmt.Sprintf("failed to create HTTP request: %v", err),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", el.apiKey(request))
	req.Header.Set("User-Agent", "legal-scribe/1.0")

	return req, nil
}

// handleHTTPError handles HTTP error responses
func (el *ScribeProvider) handleHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &provider.TranscriptionError{
			Code:        provider.CodeAuthenticationFailed,
			Message:     "ElevenLabs API key is invalid or missing",
			Provider:    "elevenlabs",
			Retryable:   false,
			Suggestions: []string{"Check the API key supplied with the request"},
		}
	case http.StatusTooManyRequests:
		// Vendor rate limiting surfaces as a generic service failure;
		// no retry or backoff is attempted here.
		return &provider.TranscriptionError{
			Code:        provider.CodeServiceError,
			Message:     "ElevenLabs API rate limit exceeded",
			Provider:    "elevenlabs",
			Retryable:   true,
			Suggestions: []string{"Wait a moment and try again"},
		}
	case http.StatusRequestEntityTooLarge:
		return &provider.TranscriptionError{
			Code:        provider.CodeUploadRejected,
			Message:     "Audio file is too large",
			Provider:    "elevenlabs",
			Retryable:   false,
			Suggestions: []string{"Reduce file size", "Split into smaller chunks"},
		}
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return &provider.TranscriptionError{
			Code:      provider.CodeUploadRejected,
			Message:   fmt.Sprintf("Invalid request: %s", string(body)),
			Provider:  "elevenlabs",
			Retryable: false,
		}
	case 500, 502, 503, 504:
		return &provider.TranscriptionError{
			Code:      provider.CodeServiceError,
			Message:   "ElevenLabs server error",
			Provider:  "elevenlabs",
			Retryable: true,
		}
	default:
		return &provider.TranscriptionError{
			Code:      provider.CodeServiceError,
			Message:   fmt.Sprintf("Unexpected HTTP status %d: %s", resp.StatusCode, string(body)),
			Provider:  "elevenlabs",
			Retryable: true,
		}
	}
}

func (el *ScribeProvider) getModel(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return el.config.Model
}

// apiKey resolves the credential: per-request key wins over the configured
// default. The result is only ever placed in the xi-api-key header.
func (el *ScribeProvider) apiKey(request *provider.TranscriptionRequest) string {
	if request.APIKey != "" {
		return request.APIKey
	}
	return el.config.APIKey
}

// segmentsFromWords folds the word-level alignment into speaker-attributed
// segments. Consecutive words with the same speaker id become one segment;
// spacing tokens join the run they sit in, so the segment texts concatenate
// back to the full transcript.
func segmentsFromWords(words []scribeWord) []model.Segment {
	if len(words) == 0 {
		return nil
	}

	var segments []model.Segment
	var current *model.Segment
	var buf strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(buf.String())
		if current.Text != "" {
			segments = append(segments, *current)
		}
		current = nil
		buf.Reset()
	}

	for _, w := range words {
		if w.Type == "audio_event" {
			continue
		}
		if w.Type == "spacing" {
			if current != nil {
				buf.WriteString(w.Text)
			}
			continue
		}
		if current == nil || w.SpeakerID != current.Speaker {
			flush()
			current = &model.Segment{
				Speaker: w.SpeakerID,
				Start:   w.Start,
			}
		}
		buf.WriteString(w.Text)
		current.End = w.End
	}
	flush()

	return segments
}

func convertEntities(entities []scribeEntity) []model.Entity {
	if len(entities) == 0 {
		return nil
	}

	converted := make([]model.Entity, len(entities))
	for i, e := range entities {
		converted[i] = model.Entity{
			Type:  model.EntityType(strings.ToLower(e.Type)),
			Text:  e.Text,
			Start: e.StartTime,
			End:   e.EndTime,
		}
	}
	return converted
}

func audioDuration(words []scribeWord) float64 {
	if len(words) == 0 {
		return 0
	}
	return words[len(words)-1].End
}

// GetProviderInfo reports the Scribe provider capabilities.
func (el *ScribeProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "elevenlabs",
		DisplayName: "ElevenLabs Scribe",
		Type:        provider.ProviderTypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []provider.AudioFormat{
			provider.FormatMP3,
			provider.FormatWAV,
			provider.FormatFLAC,
			provider.FormatM4A,
			provider.FormatOGG,
			provider.FormatWEBM,
		},
		MaxFileSizeMB:           25,
		SupportsDiarization:     true,
		SupportsEntityDetection: true,
		SupportsKeyterms:        true,
		SupportsTimestamps:      true,
		RequiresInternet:        true,
		RequiresAPIKey:          true,
		DefaultModel:            "scribe_v2",
		AvailableModels:         []string{"scribe_v1", "scribe_v2"},
	}
}

// ValidateConfiguration validates the provider configuration
func (el *ScribeProvider) ValidateConfiguration() error {
	if el.config.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if el.config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive")
	}
	// The API key is optional here: callers usually supply one per request.
	if el.config.APIKey != "" && !strings.HasPrefix(el.config.APIKey, "sk_") && !strings.HasPrefix(el.config.APIKey, "el_") {
		return fmt.Errorf("ElevenLabs API key format appears to be invalid")
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (el *ScribeProvider) HealthCheck(ctx context.Context) error {
	if err := el.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if el.config.APIKey == "" {
		// Nothing else to probe without a credential.
		return nil
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", el.config.BaseURL+"/user", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	req.Header.Set("xi-api-key", el.config.APIKey)

	resp, err := el.client.Do(req)
	if err != nil {
		return fmt.Errorf("ElevenLabs API health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("ElevenLabs API authentication failed")
	}

	return nil
}

package entity

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"legal-scribe/internal/app/model"
)

// OpenAIDetector extracts entities with a chat completion call.
type OpenAIDetector struct {
	client *openai.Client
	model  string
}

// NewOpenAIDetector creates a detector backed by the OpenAI chat API.
func NewOpenAIDetector(apiKey string) *OpenAIDetector {
	return &OpenAIDetector{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// Detect extracts entities from text via one chat completion.
func (d *OpenAIDetector) Detect(ctx context.Context, text string, keyterms []string) ([]model.Entity, error) {
	if len(model.NormalizeSpace(text)) == 0 {
		return nil, errors.New("empty text provided")
	}

	request := openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, keyterms),
			},
		},
		Temperature: 0,
	}

	resp, err := d.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("entity detection chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("entity detection returned no choices")
	}

	return parseEntities(resp.Choices[0].Message.Content)
}

// Name identifies the detector.
func (d *OpenAIDetector) Name() string {
	return "openai"
}

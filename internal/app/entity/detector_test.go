package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-scribe/internal/app/model"
)

func TestParseEntities(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		expected   []model.Entity
		wantErr    bool
	}{
		{
			name:       "plain JSON array",
			completion: `[{"type": "person", "text": "John Smith"}, {"type": "date", "text": "July 15th, 2023"}]`,
			expected: []model.Entity{
				{Type: model.EntityPerson, Text: "John Smith"},
				{Type: model.EntityDate, Text: "July 15th, 2023"},
			},
		},
		{
			name: "markdown fenced JSON",
			completion: "```json\n" +
				`[{"type": "contract", "text": "MSA"}]` +
				"\n```",
			expected: []model.Entity{
				{Type: model.EntityContract, Text: "MSA"},
			},
		},
		{
			name:       "bare fence without language tag",
			completion: "```\n[{\"type\": \"person\", \"text\": \"Jane\"}]\n```",
			expected: []model.Entity{
				{Type: model.EntityPerson, Text: "Jane"},
			},
		},
		{
			name:       "type is normalized to lower case",
			completion: `[{"type": " PERSON ", "text": "Jane"}]`,
			expected: []model.Entity{
				{Type: model.EntityPerson, Text: "Jane"},
			},
		},
		{
			name:       "empty text entries are dropped",
			completion: `[{"type": "person", "text": ""}, {"type": "date", "text": "2023"}]`,
			expected: []model.Entity{
				{Type: model.EntityDate, Text: "2023"},
			},
		},
		{
			name:       "empty array",
			completion: `[]`,
			expected:   []model.Entity{},
		},
		{
			name:       "prose instead of JSON",
			completion: "I found two people in this transcript.",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities, err := parseEntities(tt.completion)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entities)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("includes keyterm hints", func(t *testing.T) {
		prompt := buildPrompt("some transcript", []string{"MSA", "force majeure"})
		assert.Contains(t, prompt, "MSA, force majeure")
		assert.Contains(t, prompt, "some transcript")
	})

	t.Run("no hint line without keyterms", func(t *testing.T) {
		prompt := buildPrompt("some transcript", nil)
		assert.NotContains(t, prompt, "particular attention")
	})
}

func TestMockDetector(t *testing.T) {
	mock := &MockDetector{
		Entities: []model.Entity{{Type: model.EntityPerson, Text: "John"}},
	}

	entities, err := mock.Detect(context.Background(), "transcript text", []string{"John"})
	require.NoError(t, err)
	assert.Len(t, entities, 1)
	assert.Equal(t, 1, mock.Calls)
	assert.Equal(t, "transcript text", mock.LastText)
}

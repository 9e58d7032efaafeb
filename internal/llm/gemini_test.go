package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":        "object",
		"description": "metadata",
		"properties": map[string]any{
			"difficulty": map[string]any{"type": "string", "enum": []string{"easy", "hard"}},
			"tags":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"score":      map[string]any{"type": "integer"},
		},
		"required": []any{"difficulty"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "metadata", s.Description)
	assert.Equal(t, []string{"difficulty"}, s.Required)
	require.Len(t, s.Properties, 3)
	assert.Equal(t, []string{"easy", "hard"}, s.Properties["difficulty"].Enum)
	require.NotNil(t, s.Properties["tags"].Items)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["score"].Type)
}

func TestGeminiAliases(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-2.5-pro", geminiAliases))
}

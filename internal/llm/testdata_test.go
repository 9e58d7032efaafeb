package llm

import (
	"encoding/json"
	"net/http"
	"testing"
)

func metadataSchema() *Schema {
	return &Schema{
		Name: "question-metadata",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"taxonomy_level": map[string]any{"type": "string", "enum": []any{"remember", "understand", "apply"}},
				"difficulty":     map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
				"explanation":    map[string]any{"type": "string"},
			},
			"required":             []any{"taxonomy_level", "difficulty"},
			"additionalProperties": false,
		},
	}
}

const metadataReply = `{"taxonomy_level":"apply","difficulty":"medium","explanation":"Uses the formula."}`

func suggestRequest(s *Schema) Request {
	return Request{
		System:    "Classify the question.",
		Messages:  []Message{{Role: RoleUser, Content: "Which organelle makes ATP?"}},
		Schema:    s,
		MaxTokens: 512,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode reply: %v", err)
	}
}

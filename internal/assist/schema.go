package assist

import (
	"github.com/abhisek/smartmcq/internal/llm"
	"github.com/abhisek/smartmcq/internal/model"
)

// MetadataSchema is the structured output of a metadata suggestion.
var MetadataSchema = &llm.Schema{
	Name:        "question-metadata",
	Description: "Bloom's taxonomy level, difficulty and explanation for a multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"taxonomy_level": map[string]any{
				"type": "string",
				"enum": levelEnum(),
			},
			"difficulty": map[string]any{
				"type": "string",
				"enum": difficultyEnum(),
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct answer is correct, 1-3 sentences, plain text",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "One sentence justifying the level and difficulty",
			},
		},
		"required":             []any{"taxonomy_level", "difficulty", "explanation", "rationale"},
		"additionalProperties": false,
	},
}

func levelEnum() []any {
	var out []any
	for _, l := range model.AllLevels() {
		out = append(out, string(l))
	}
	return out
}

func difficultyEnum() []any {
	var out []any
	for _, d := range model.AllDifficulties() {
		out = append(out, string(d))
	}
	return out
}

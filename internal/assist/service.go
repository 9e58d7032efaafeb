// Package assist proposes question metadata with an LLM.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/smartmcq/internal/llm"
	"github.com/abhisek/smartmcq/internal/model"
)

// Purpose tags suggestion calls in the LLM event log.
const Purpose = "suggest-metadata"

// ErrUnavailable is returned when no provider is configured.
var ErrUnavailable = errors.New("AI suggestions are not configured")

// Suggestion is a proposed set of question metadata.
type Suggestion struct {
	Taxonomy    model.TaxonomyLevel
	Difficulty  model.Difficulty
	Explanation string
	Rationale   string
}

// Apply returns a copy of q carrying the suggestion. An existing
// explanation is kept.
func (s Suggestion) Apply(q model.Question) model.Question {
	out := q.Clone()
	out.Taxonomy = s.Taxonomy
	out.Difficulty = s.Difficulty
	if out.Explanation == "" {
		out.Explanation = s.Explanation
	}
	return out
}

// Service asks the provider for suggestions. A nil provider disables it.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a suggestion service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Enabled reports whether suggestions can be requested.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type suggestionOutput struct {
	TaxonomyLevel string `json:"taxonomy_level"`
	Difficulty    string `json:"difficulty"`
	Explanation   string `json:"explanation"`
	Rationale     string `json:"rationale"`
}

// Suggest proposes a Bloom level, a difficulty and an explanation for q.
func (s *Service) Suggest(ctx context.Context, q model.Question) (*Suggestion, error) {
	if !s.Enabled() {
		return nil, ErrUnavailable
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(q)},
		},
		Schema:      MetadataSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("metadata suggestion: %w", err)
	}

	var out suggestionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse suggestion response: %w", err)
	}

	level := model.ParseLevel(out.TaxonomyLevel)
	if !level.Known() {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("unknown taxonomy level %q", out.TaxonomyLevel)}
	}

	return &Suggestion{
		Taxonomy:    level,
		Difficulty:  model.ParseDifficulty(out.Difficulty),
		Explanation: out.Explanation,
		Rationale:   out.Rationale,
	}, nil
}

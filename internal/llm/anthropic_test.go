package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func anthropicMessage(stop string, texts ...string) map[string]any {
	var blocks []map[string]any
	for _, s := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": s})
	}
	return map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     blocks,
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
	}
}

func TestAnthropicSuggestion(t *testing.T) {
	var sent map[string]any
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		writeJSON(t, w, http.StatusOK, anthropicMessage("end_turn", metadataReply))
	})
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	resp, err := p.Generate(context.Background(), suggestRequest(metadataSchema()))
	require.NoError(t, err)
	assert.JSONEq(t, metadataReply, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 40}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)

	assert.Equal(t, "claude-haiku-4-5-20251001", sent["model"])
	assert.EqualValues(t, 512, sent["max_tokens"])
	assert.NotEmpty(t, sent["system"])
}

func TestAnthropicJoinsTextBlocks(t *testing.T) {
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, anthropicMessage("end_turn", `{"taxonomy_level":"apply",`, `"difficulty":"hard"}`))
	})
	resp, err := p.Generate(context.Background(), suggestRequest(metadataSchema()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"taxonomy_level":"apply","difficulty":"hard"}`, string(resp.Content))
}

func TestAnthropicTruncatedReply(t *testing.T) {
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, anthropicMessage("max_tokens", `{"taxonomy_level":"app`))
	})
	_, err := p.Generate(context.Background(), suggestRequest(metadataSchema()))
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
	assert.False(t, Retryable(err))
}

func TestAnthropicReplyOutsideSchema(t *testing.T) {
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, anthropicMessage("end_turn", `{"taxonomy_level":"memorize","difficulty":"easy"}`))
	})
	_, err := p.Generate(context.Background(), suggestRequest(metadataSchema()))
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, string(inv.Content), "memorize")
}

func TestAnthropicErrorStatuses(t *testing.T) {
	apiError := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "nope"}}

	t.Run("rate limit", func(t *testing.T) {
		p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "7")
			writeJSON(t, w, http.StatusTooManyRequests, apiError)
		})
		_, err := p.Generate(context.Background(), suggestRequest(nil))
		var rl *ErrRateLimit
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 7*time.Second, rl.RetryAfter)
	})

	t.Run("bad key", func(t *testing.T) {
		p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, apiError)
		})
		_, err := p.Generate(context.Background(), suggestRequest(nil))
		var rej *ErrRequestRejected
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, http.StatusUnauthorized, rej.Status)
		assert.False(t, Retryable(err))
	})

	t.Run("overloaded", func(t *testing.T) {
		p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusServiceUnavailable, apiError)
		})
		_, err := p.Generate(context.Background(), suggestRequest(nil))
		var un *ErrProviderUnavailable
		require.ErrorAs(t, err, &un)
		assert.True(t, Retryable(err))
	})
}

func TestAnthropicRequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
}

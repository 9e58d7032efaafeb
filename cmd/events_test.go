package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/smartmcq/internal/store"
)

func llmEvent(id int, purpose string, ok bool) store.LLMRequestEvent {
	return store.LLMRequestEvent{
		ID:        id,
		Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.Local),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: purpose,
			InputTokens: 300, OutputTokens: 80, LatencyMs: 912, Success: ok,
		},
	}
}

func TestFilterPurpose(t *testing.T) {
	events := []store.LLMRequestEvent{
		llmEvent(4, "suggest-metadata", true),
		llmEvent(3, "unknown", true),
		llmEvent(2, "suggest-metadata", false),
		llmEvent(1, "suggest-metadata", true),
	}
	got := filterPurpose(events, "suggest-metadata", 2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, 4, got[0].ID)
		assert.Equal(t, 2, got[1].ID)
	}
	assert.Len(t, filterPurpose(events, "", 2), 4)
}

func TestPrintLLMEvents(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvents(&buf, []store.LLMRequestEvent{llmEvent(7, "suggest-metadata", false)})
	out := buf.String()
	assert.Contains(t, out, "Purpose")
	assert.Contains(t, out, "2026-03-02 09:30:00")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "912")
	assert.Contains(t, out, "✗")

	buf.Reset()
	printLLMEvents(&buf, nil)
	assert.Equal(t, "No suggestion requests recorded.\n", buf.String())
}

func TestPrintLLMEvent(t *testing.T) {
	e := llmEvent(7, "suggest-metadata", false)
	e.ErrorMessage = "rate limited"
	e.RequestBody = "[system]\nClassify.\n"

	var buf bytes.Buffer
	printLLMEvent(&buf, &e)
	out := buf.String()
	assert.Contains(t, out, "gpt-4o-mini (openai)")
	assert.Contains(t, out, "failed: rate limited")
	assert.Contains(t, out, "Classify.")
	assert.Contains(t, out, "(empty)")
}

func TestPrintLLMStats(t *testing.T) {
	var buf bytes.Buffer
	printLLMStats(&buf,
		[]store.LLMUsage{{Key: "suggest-metadata", Calls: 3, InputTokens: 1_000_000, OutputTokens: 0, AvgLatencyMs: 850}},
		[]store.LLMUsage{
			{Key: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000},
			{Key: "home-made-model", Calls: 1, InputTokens: 10},
		})
	out := buf.String()
	assert.Contains(t, out, "suggest-metadata")
	assert.Contains(t, out, "850")
	assert.Contains(t, out, "$0.15")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "No pricing for: home-made-model")
}

func TestUSD(t *testing.T) {
	assert.Equal(t, "$0.0012", usd(0.00123))
	assert.Equal(t, "$1.50", usd(1.5))
}

func TestFailedOnly(t *testing.T) {
	mk := func(id int, ok bool) store.APIRequestEvent {
		return store.APIRequestEvent{ID: id, APIRequestEventData: store.APIRequestEventData{Success: ok}}
	}
	got := failedOnly([]store.APIRequestEvent{mk(5, false), mk(4, true), mk(3, false), mk(2, false)}, 2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, 5, got[0].ID)
		assert.Equal(t, 3, got[1].ID)
	}
}

func TestPrintEndpointUsage(t *testing.T) {
	var buf bytes.Buffer
	printEndpointUsage(&buf, []store.EndpointUsage{
		{Method: "GET", Path: "/api/v1/courses", Calls: 10, Failures: 1, AvgLatencyMs: 42},
		{Method: "POST", Path: "/api/v1/courses/{id}/tests", Calls: 2, Failures: 0, AvgLatencyMs: 120},
	})
	out := buf.String()
	assert.Contains(t, out, "/api/v1/courses/{id}/tests")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "12")
	assert.Equal(t, "-", statusText(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "anthro…", truncate("anthropic/claude", 7))
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/smartmcq/internal/store"
)

// maxLoggedBody caps each stored prompt and reply.
const maxLoggedBody = 64 << 10

// LoggingProvider records every call as an LLM request event. A failed
// write is reported on stderr and never fails the call.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
}

// WithLogging wraps p. name is the provider recorded with each event, e.g.
// "openrouter".
func WithLogging(p Provider, name string, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: name, events: events}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: clip(transcript(req)),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = clip(string(resp.Content))
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		if body := rejectedContent(err); body != "" {
			ev.ResponseBody = clip(body)
		}
	}

	// The event outlives a cancelled caller.
	if werr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); werr != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record LLM request: %v\n", werr)
	}
	return resp, err
}

// rejectedContent is the reply text carried by a validation or truncation
// error, so failed suggestions can be inspected with `smartmcq llm view`.
func rejectedContent(err error) string {
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return string(inv.Content)
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return string(maxTok.Content)
	}
	return ""
}

// transcript renders req as labelled sections: system, each message and
// the schema.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, strings.TrimRight(body, "\n"))
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.MarshalIndent(req.Schema.Definition, "", "  "); err == nil {
			section("schema "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func clip(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "\n[truncated]"
}

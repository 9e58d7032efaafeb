package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/abhisek/smartmcq/internal/store"
)

// RequestIDHeader carries the per-call request id.
const RequestIDHeader = "X-Request-ID"

// loggingTransport records every round trip as an API request event.
type loggingTransport struct {
	inner     http.RoundTripper
	eventRepo store.EventRepo
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.inner.RoundTrip(req)

	data := store.APIRequestEventData{
		RequestID: req.Header.Get(RequestIDHeader),
		Method:    req.Method,
		Path:      req.URL.Path,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	switch {
	case err != nil:
		data.ErrorMessage = err.Error()
	case resp.StatusCode >= http.StatusBadRequest:
		data.Status = resp.StatusCode
		data.ErrorMessage = resp.Status
	default:
		data.Status = resp.StatusCode
		data.Success = true
	}

	// The request context may already be cancelled; the event is still kept.
	ctx := context.WithoutCancel(req.Context())
	if logErr := t.eventRepo.AppendAPIRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log API request event: %v\n", logErr)
	}

	return resp, err
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryWith(t *testing.T, mock *MockProvider, attempts int) (*RetryProvider, *[]time.Duration) {
	t.Helper()
	var waits []time.Duration
	r := WithRetry(mock, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}).(*RetryProvider)
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestRetryRecoversFromOutage(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: json.RawMessage(metadataReply)})
	r, waits := retryWith(t, mock, 3)

	resp, err := r.Generate(context.Background(), suggestRequest(nil))
	require.NoError(t, err)
	assert.JSONEq(t, metadataReply, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
	require.Len(t, *waits, 2)
	assert.InDelta(t, 100*time.Millisecond, (*waits)[0], float64(20*time.Millisecond))
	assert.InDelta(t, 200*time.Millisecond, (*waits)[1], float64(40*time.Millisecond))
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), down())
	r, waits := retryWith(t, mock, 3)

	_, err := r.Generate(context.Background(), suggestRequest(nil))
	var un *ErrProviderUnavailable
	require.ErrorAs(t, err, &un)
	assert.Equal(t, 3, mock.CallCount())
	assert.Len(t, *waits, 2)
}

func TestRetryCapsBackoff(t *testing.T) {
	r, _ := retryWith(t, NewMockProvider(), 6)
	err := &ErrProviderUnavailable{}
	assert.LessOrEqual(t, r.wait(5, err), 360*time.Millisecond)
	assert.GreaterOrEqual(t, r.wait(5, err), 240*time.Millisecond)
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 2 * time.Second}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, waits := retryWith(t, mock, 3)

	_, err := r.Generate(context.Background(), suggestRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, *waits)
}

func TestRetryInvalidReplyOnce(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}
	mock := NewMockProvider(invalid, invalid, MockResponse{Content: json.RawMessage(`{}`)})
	r, _ := retryWith(t, mock, 5)

	_, err := r.Generate(context.Background(), suggestRequest(nil))
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	for name, resp := range map[string]MockResponse{
		"rejected":  {Err: &ErrRequestRejected{Status: 401, Err: errors.New("bad key")}},
		"truncated": {StopReason: StopMaxTokens, Content: json.RawMessage(`{"a`)},
		"cancelled": {Err: context.Canceled},
	} {
		t.Run(name, func(t *testing.T) {
			mock := NewMockProvider(resp, MockResponse{Content: json.RawMessage(`{}`)})
			r, waits := retryWith(t, mock, 3)
			_, err := r.Generate(context.Background(), suggestRequest(nil))
			assert.Error(t, err)
			assert.Equal(t, 1, mock.CallCount())
			assert.Empty(t, *waits)
		})
	}
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(down(), down())
	r := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Generate(ctx, suggestRequest(nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryBudget(t *testing.T) {
	mock := NewMockProvider(down(), down())
	r := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 2, Budget: 20 * time.Millisecond})

	start := time.Now()
	_, err := r.Generate(context.Background(), suggestRequest(nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session is the persisted authentication cookie of the signed-in user.
type Session struct {
	ID       int
	Username string
	// Cookie is the full cookie record including its attributes.
	Cookie    string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// SessionRepo persists the single active session.
type SessionRepo interface {
	// Save replaces any existing session with s.
	Save(ctx context.Context, s *Session) error

	// Current returns the active session, or nil if nobody is signed in.
	Current(ctx context.Context) (*Session, error)

	// Clear removes the active session.
	Clear(ctx context.Context) error
}

// APIRequestEventData captures one backend HTTP round trip.
type APIRequestEventData struct {
	RequestID    string
	Method       string
	Path         string
	Status       int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// APIRequestEvent is a stored APIRequestEventData.
type APIRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	APIRequestEventData
}

// EndpointUsage aggregates API events per method and path.
type EndpointUsage struct {
	Method       string
	Path         string
	Calls        int
	Failures     int
	AvgLatencyMs float64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by a grouping key (purpose or model).
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendAPIRequest records a backend API call event.
	AppendAPIRequest(ctx context.Context, data APIRequestEventData) error
	// QueryAPIRequests returns API events newest first.
	QueryAPIRequests(ctx context.Context, opts QueryOpts) ([]APIRequestEvent, error)
	// GetAPIRequest returns one API event by ID.
	GetAPIRequest(ctx context.Context, id int) (*APIRequestEvent, error)
	// APIUsageByEndpoint aggregates API events by method and path.
	APIUsageByEndpoint(ctx context.Context) ([]EndpointUsage, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMRequests returns LLM events newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMRequest returns one LLM event by ID.
	GetLLMRequest(ctx context.Context, id int) (*LLMRequestEvent, error)
	// LLMUsageByPurpose aggregates LLM events by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	// LLMUsageByModel aggregates LLM events by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

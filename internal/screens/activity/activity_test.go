package activity

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/abhisek/smartmcq/internal/screens/screentest"
	"github.com/abhisek/smartmcq/internal/store"
)

func newEvents(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestListsRequestsNewestFirst(t *testing.T) {
	events := newEvents(t)
	ctx := context.Background()
	require.NoError(t, events.AppendAPIRequest(ctx, store.APIRequestEventData{
		RequestID: "r1", Method: "GET", Path: "/api/courses", Status: 200, LatencyMs: 12, Success: true,
	}))
	require.NoError(t, events.AppendAPIRequest(ctx, store.APIRequestEventData{
		RequestID: "r2", Method: "PUT", Path: "/api/courses/bio/tests/t1", Status: 400, LatencyMs: 30,
		ErrorMessage: "Title is required",
	}))

	env := st.Env(st.NewBackend())
	env.Events = events
	s := New(env)
	st.Feed(s, s.Init())

	view := st.Strip(s.View(120, 20))
	require.Contains(t, view, "/api/courses/bio/tests/t1")
	assert.Less(t, strings.Index(view, "/api/courses/bio/tests/t1"), strings.Index(view, "GET    /api/courses"))

	st.Press(s, "enter")
	view = st.Strip(s.View(120, 20))
	assert.Contains(t, view, "request r2")
	assert.Contains(t, view, "Title is required")

	st.Press(s, "s")
	view = st.Strip(s.View(120, 20))
	assert.Contains(t, view, "METHOD")
	assert.Contains(t, view, "/api/courses")
}

func TestEmpty(t *testing.T) {
	env := st.Env(st.NewBackend())
	env.Events = newEvents(t)
	s := New(env)
	st.Feed(s, s.Init())
	assert.Contains(t, st.Strip(s.View(120, 20)), "No requests recorded yet.")
}

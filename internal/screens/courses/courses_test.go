package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/router"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

func TestListsCoursesAndOpensCourse(t *testing.T) {
	s := New(st.Env(st.Seeded()))
	assert.Contains(t, st.Strip(s.View(100, 20)), "Loading courses...")

	st.Feed(s, s.Init())
	view := st.Strip(s.View(100, 20))
	assert.Contains(t, view, "Biology")
	assert.Contains(t, view, "Intro biology")

	_, cmd := st.Press(s, "enter")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Biology", msgs[0].(router.PushScreenMsg).Screen.Title())
}

func TestStaleResultIgnored(t *testing.T) {
	s := New(st.Env(st.Seeded()))
	msgs := st.Drain(s.Init())
	require.Len(t, msgs, 1)

	// A retry supersedes the first load.
	s.Init()
	s.Update(msgs[0])
	assert.False(t, s.loaded)
}

func TestEmpty(t *testing.T) {
	s := New(st.Env(st.NewBackend()))
	st.Feed(s, s.Init())
	assert.Contains(t, st.Strip(s.View(100, 20)), "No courses available.")
}

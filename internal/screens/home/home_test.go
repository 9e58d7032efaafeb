package home

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

func TestViewShowsUser(t *testing.T) {
	s := New(st.Env(st.Seeded()))
	view := st.Strip(s.View(100, 30))
	assert.Contains(t, view, "Signed in as instructor")
	assert.Contains(t, view, "Courses")
}

func TestCoursesEntry(t *testing.T) {
	s := New(st.Env(st.Seeded()))
	_, cmd := st.Press(s, "enter")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Courses", msgs[0].(router.PushScreenMsg).Screen.Title())
}

func TestActivityDisabledWithoutStore(t *testing.T) {
	s := New(st.Env(st.Seeded()))
	st.Press(s, "down")
	assert.Equal(t, 2, s.menu.Selected, "cursor skips the disabled Activity entry")
}

func TestSignOut(t *testing.T) {
	env := st.Env(st.Seeded())
	s := New(env)
	_, cmd := st.Press(s, "down", "enter")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, nav.SignedOutMsg{}, msgs[0])
	assert.True(t, env.Auth.(*st.Auth).LoggedOut)
}

func TestQuit(t *testing.T) {
	s := New(st.Env(st.Seeded()))
	_, cmd := st.Press(s, "down", "down", "enter")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, tea.QuitMsg{}, msgs[0])
}

package login

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newLogin(t *testing.T) *LoginScreen {
	t.Helper()
	env := st.Env(st.NewBackend())
	s := New(env, func() screen.Screen { return &stubScreen{} })
	s.Init()
	return s
}

func fill(s screen.Screen, user, pass string) screen.Screen {
	s = st.Type(s, user)
	s, _ = st.Press(s, "enter")
	return st.Type(s, pass)
}

func TestSuccessfulSignIn(t *testing.T) {
	s := fill(newLogin(t), "instructor", "secret")

	s, cmd := st.Press(s, "enter")
	require.NotNil(t, cmd)
	assert.Contains(t, st.Strip(s.View(80, 24)), "Signing in...")

	_, escaped := st.Feed(s, cmd)
	require.Len(t, escaped, 2)

	var signedIn nav.SignedInMsg
	var replaced router.ReplaceScreenMsg
	for _, m := range escaped {
		switch m := m.(type) {
		case nav.SignedInMsg:
			signedIn = m
		case router.ReplaceScreenMsg:
			replaced = m
		}
	}
	require.NotNil(t, signedIn.Session)
	assert.Equal(t, "instructor", signedIn.Session.Username)
	assert.Equal(t, "Home", replaced.Screen.Title())
}

func TestFailedSignInKeepsCredentials(t *testing.T) {
	s := fill(newLogin(t), "instructor", "wrong")

	s, cmd := st.Press(s, "enter")
	s, escaped := st.Feed(s, cmd)
	assert.Empty(t, escaped)

	view := st.Strip(s.View(80, 24))
	assert.Contains(t, view, "Incorrect username or password")

	ls := s.(*LoginScreen)
	assert.Equal(t, "instructor", ls.username.Value())
	assert.Equal(t, "wrong", ls.password.Value())
	assert.False(t, ls.busy)
}

func TestEmptyCredentialsAreNotSubmitted(t *testing.T) {
	s := newLogin(t)
	s.focus = 1
	_, cmd := st.Press(s, "enter")
	assert.Nil(t, cmd)
	assert.Contains(t, st.Strip(s.View(80, 24)), "Enter a username and password.")
}

func TestPasswordIsMasked(t *testing.T) {
	s := fill(newLogin(t), "instructor", "hunter2")
	assert.False(t, strings.Contains(st.Strip(s.View(80, 24)), "hunter2"))
}

func TestStaleResultAfterDispose(t *testing.T) {
	s := fill(newLogin(t), "instructor", "secret")
	s, cmd := st.Press(s, "enter")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)

	s.(*LoginScreen).Dispose()
	_, next := s.Update(msgs[0])
	assert.Nil(t, next)
}

func TestUsernamePrefilledFromConfig(t *testing.T) {
	env := st.Env(st.NewBackend())
	env.Config.API.Username = "instructor"
	s := New(env, func() screen.Screen { return &stubScreen{} })
	assert.Equal(t, 1, s.focus)
	assert.Equal(t, "instructor", s.username.Value())
}

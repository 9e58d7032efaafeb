package app

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

type fakeSessions struct {
	sess *auth.Session
	err  error
}

func (f fakeSessions) Current(context.Context) (*auth.Session, error) {
	return f.sess, f.err
}

type fakeTokens struct{ token string }

func (f *fakeTokens) SetToken(token string) { f.token = token }

type fakeVersions struct {
	version string
	err     error
}

func (f fakeVersions) Version(context.Context) (string, error) {
	return f.version, f.err
}

func newApp(t *testing.T, sessions fakeSessions, versions VersionSource) (*AppModel, *fakeTokens, *nav.Env) {
	t.Helper()
	env := st.Env(st.Seeded())
	env.User = ""
	tokens := &fakeTokens{}
	m := NewAppModel(context.Background(), Options{Env: env, Tokens: tokens, Sessions: sessions, Versions: versions})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, tokens, env
}

func signedIn() fakeSessions {
	return fakeSessions{sess: &auth.Session{Username: "instructor", Cookie: auth.NewCookie("tok")}}
}

func view(m *AppModel) string {
	return st.Strip(m.render())
}

func TestStartsAtHomeWithStoredSession(t *testing.T) {
	m, tokens, env := newApp(t, signedIn(), nil)
	assert.Equal(t, "Home", m.Active().Title())
	assert.Equal(t, "tok", tokens.token)
	assert.Equal(t, "instructor", env.User)
	assert.Contains(t, view(m), "instructor")
}

func TestStartsAtLoginWithoutSession(t *testing.T) {
	m, tokens, _ := newApp(t, fakeSessions{err: auth.ErrNoSession}, nil)
	assert.Equal(t, "Sign In", m.Active().Title())
	assert.Empty(t, tokens.token)
	assert.NotContains(t, view(m), ExpiredNotice)
}

func TestStartsAtLoginWithExpiredNotice(t *testing.T) {
	m, _, _ := newApp(t, fakeSessions{err: auth.ErrExpired}, nil)
	assert.Equal(t, "Sign In", m.Active().Title())
	assert.Contains(t, view(m), ExpiredNotice)
}

func TestSignedInSetsTokenAndUser(t *testing.T) {
	m, tokens, env := newApp(t, fakeSessions{err: auth.ErrNoSession}, nil)
	m.Update(nav.SignedInMsg{Session: &auth.Session{Username: "ta", Cookie: auth.NewCookie("t2")}})
	assert.Equal(t, "t2", tokens.token)
	assert.Equal(t, "ta", env.User)
}

func TestSignedOutReturnsToLogin(t *testing.T) {
	m, tokens, env := newApp(t, signedIn(), nil)
	m.Update(router.PushScreenMsg{Screen: m.homeScreen()})
	require.Equal(t, 2, m.router.Depth())

	m.Update(nav.SignedOutMsg{})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Sign In", m.Active().Title())
	assert.Empty(t, tokens.token)
	assert.Empty(t, env.User)
}

func TestSessionExpiredLogsOutAndShowsNotice(t *testing.T) {
	m, tokens, env := newApp(t, signedIn(), nil)
	m.Update(nav.SessionExpiredMsg{})

	assert.True(t, env.Auth.(*st.Auth).LoggedOut)
	assert.Empty(t, tokens.token)
	assert.Equal(t, "Sign In", m.Active().Title())
	assert.Contains(t, view(m), ExpiredNotice)
}

func TestEscPopsNonCapturingScreen(t *testing.T) {
	m, _, _ := newApp(t, signedIn(), nil)
	m.Update(router.PushScreenMsg{Screen: m.homeScreen()})

	_, cmd := m.Update(st.Key("esc"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, m.router.Depth())
}

func TestEscIsLeftToCapturingScreen(t *testing.T) {
	m, _, _ := newApp(t, signedIn(), nil)
	m.Update(router.PushScreenMsg{Screen: m.loginScreen("")})

	_, cmd := m.Update(st.Key("esc"))
	for _, msg := range st.Drain(cmd) {
		_, isPop := msg.(router.PopScreenMsg)
		assert.False(t, isPop)
	}
	assert.Equal(t, 2, m.router.Depth())
}

func TestCtrlCQuits(t *testing.T) {
	m, _, _ := newApp(t, signedIn(), nil)
	_, cmd := m.Update(st.Key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestVersionCheck(t *testing.T) {
	tests := []struct {
		name     string
		versions fakeVersions
		warning  string
	}{
		{"compatible", fakeVersions{version: "1.4.2"}, ""},
		{"major mismatch", fakeVersions{version: "2.0.0"}, "incompatible backend version"},
		{"not semver", fakeVersions{version: "latest"}, "not a semantic version"},
		{"unreachable", fakeVersions{err: errors.New("dial tcp: refused")}, "Could not read the backend version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newApp(t, signedIn(), tt.versions)
			m.Update(m.checkVersion()())

			if tt.warning == "" {
				assert.Empty(t, m.Warning())
				return
			}
			assert.Contains(t, m.Warning(), tt.warning)
			assert.Contains(t, view(m), tt.warning)
		})
	}
}

func TestNoVersionCheckWithoutSource(t *testing.T) {
	m, _, _ := newApp(t, signedIn(), nil)
	assert.Nil(t, m.checkVersion())
}

// Package login is the sign-in form.
package login

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loginResultMsg struct {
	stamp   nav.Stamp
	session *auth.Session
	err     error
}

// LoginScreen collects credentials and exchanges them for a token.
type LoginScreen struct {
	env   *nav.Env
	next  func() screen.Screen
	scope *nav.Scope

	username textinput.Model
	password textinput.Model
	focus    int

	busy   bool
	errMsg string
	notice string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.Disposer = (*LoginScreen)(nil)
var _ screen.Capturer = (*LoginScreen)(nil)

// New creates the sign-in screen. next builds the screen shown after a
// successful sign-in.
func New(env *nav.Env, next func() screen.Screen) *LoginScreen {
	u := textinput.New()
	u.Placeholder = "username"
	u.Prompt = "Username: "
	u.SetValue(env.Config.API.Username)

	p := textinput.New()
	p.Placeholder = "password"
	p.Prompt = "Password: "
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	s := &LoginScreen{env: env, next: next, scope: nav.NewScope(), username: u, password: p}
	if u.Value() != "" {
		s.focus = 1
	}
	return s
}

// WithNotice shows msg above the form, e.g. after a session expired.
func (s *LoginScreen) WithNotice(msg string) *LoginScreen {
	s.notice = msg
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.applyFocus()
}

func (s *LoginScreen) Title() string { return "Sign In" }

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) CapturesInput() bool { return true }

func (s *LoginScreen) Dispose() { s.scope.Dispose() }

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		s.busy = false
		if msg.err != nil {
			s.errMsg = api.Message(msg.err, api.KindAuth)
			return s, nil
		}
		return s, tea.Batch(
			nav.Emit(nav.SignedInMsg{Session: msg.session}),
			nav.Emit(router.ReplaceScreenMsg{Screen: s.next()}),
		)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			s.focus = 1 - s.focus
			return s, s.applyFocus()
		case "enter":
			if s.focus == 0 {
				s.focus = 1
				return s, s.applyFocus()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.username, cmd = s.username.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) applyFocus() tea.Cmd {
	if s.focus == 0 {
		s.password.Blur()
		return s.username.Focus()
	}
	s.username.Blur()
	return s.password.Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	user := strings.TrimSpace(s.username.Value())
	pass := s.password.Value()
	if user == "" || pass == "" {
		s.errMsg = "Enter a username and password."
		return nil
	}
	s.busy = true
	s.errMsg = ""
	ctx, stamp := s.scope.Begin()
	authn := s.env.Auth
	return func() tea.Msg {
		sess, err := authn.Login(ctx, user, pass)
		return loginResultMsg{stamp: stamp, session: sess, err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Smart MCQ Console"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(s.env.Config.API.BaseURL))
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Banner.Render(s.notice)))
		b.WriteString("\n\n")
	}

	form := s.username.View() + "\n\n" + s.password.View()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(form)))
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("Signing in...")))
	case s.errMsg != "":
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.ErrorText.Render(s.errMsg)))
	}
	return b.String()
}

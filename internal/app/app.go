// Package app is the root Bubble Tea model of the console.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/home"
	"github.com/abhisek/smartmcq/internal/screens/login"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// ExpiredNotice is shown on the sign-in screen after a session expired.
const ExpiredNotice = "Your session has expired. Please sign in again."

// SessionSource restores the stored session.
type SessionSource interface {
	Current(ctx context.Context) (*auth.Session, error)
}

// TokenHolder receives the bearer token for API calls.
type TokenHolder interface {
	SetToken(token string)
}

// VersionSource reports the backend version.
type VersionSource interface {
	Version(ctx context.Context) (string, error)
}

// Options configures the console.
type Options struct {
	Env      *nav.Env
	Tokens   TokenHolder
	Sessions SessionSource
	// Versions is optional; without it the compatibility check is skipped.
	Versions VersionSource
}

type versionMsg struct {
	version string
	err     error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	env      *nav.Env
	tokens   TokenHolder
	versions VersionSource
	warning  string
	width    int
	height   int
}

// NewAppModel restores the stored session and starts at the home screen,
// or at the sign-in screen when nobody is signed in.
func NewAppModel(ctx context.Context, opts Options) *AppModel {
	m := &AppModel{env: opts.Env, tokens: opts.Tokens, versions: opts.Versions}

	sess, err := opts.Sessions.Current(ctx)
	switch {
	case err == nil:
		m.signIn(sess)
		m.router = router.New(m.homeScreen())
	case errors.Is(err, auth.ErrExpired):
		m.router = router.New(m.loginScreen(ExpiredNotice))
	case errors.Is(err, auth.ErrNoSession):
		m.router = router.New(m.loginScreen(""))
	default:
		m.router = router.New(m.loginScreen(fmt.Sprintf("Could not restore session: %v", err)))
	}
	return m
}

func (m *AppModel) homeScreen() screen.Screen {
	return home.New(m.env)
}

func (m *AppModel) loginScreen(notice string) screen.Screen {
	return login.New(m.env, m.homeScreen).WithNotice(notice)
}

func (m *AppModel) signIn(sess *auth.Session) {
	m.tokens.SetToken(sess.Token())
	m.env.User = sess.Username
}

func (m *AppModel) signOut() {
	m.tokens.SetToken("")
	m.env.User = ""
	m.warning = ""
}

// Active returns the top screen.
func (m *AppModel) Active() screen.Screen {
	return m.router.Active()
}

func (m *AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.env.User != "" {
		return tea.Batch(cmd, m.checkVersion())
	}
	return cmd
}

func (m *AppModel) checkVersion() tea.Cmd {
	if m.versions == nil {
		return nil
	}
	versions := m.versions
	return func() tea.Msg {
		v, err := versions.Version(context.Background())
		return versionMsg{version: v, err: err}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.Capturer); ok && c.CapturesInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, nav.Emit(router.PopScreenMsg{})
			}
			return m, nil
		}

	case nav.SignedInMsg:
		m.signIn(msg.Session)
		return m, m.checkVersion()

	case nav.SignedOutMsg:
		m.signOut()
		return m, m.router.Reset(m.loginScreen(""))

	case nav.SessionExpiredMsg:
		if a := m.env.Auth; a != nil {
			_ = a.Logout(context.Background())
		}
		m.signOut()
		return m, m.router.Reset(m.loginScreen(ExpiredNotice))

	case versionMsg:
		switch {
		case msg.err != nil:
			m.warning = "Could not read the backend version: " + api.Message(msg.err, api.KindLoad)
		default:
			if err := api.CheckCompatibility(msg.version); err != nil {
				m.warning = err.Error()
			}
		}
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// Warning is the banner shown under the header, if any.
func (m *AppModel) Warning() string { return m.warning }

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m *AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.env.User, m.width)
	if m.warning != "" {
		header += "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, theme.Banner.Render(m.warning))
	}

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

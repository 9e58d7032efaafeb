// Package home is the main menu shown after sign-in.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/activity"
	"github.com/abhisek/smartmcq/internal/screens/courses"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	env  *nav.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen.
func New(env *nav.Env) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Courses", Action: func() tea.Cmd {
			return nav.Emit(router.PushScreenMsg{Screen: courses.New(env)})
		}},
		{Label: "Activity", Disabled: env.Events == nil, Action: func() tea.Cmd {
			return nav.Emit(router.PushScreenMsg{Screen: activity.New(env)})
		}},
		{Label: "Sign Out", Action: func() tea.Cmd {
			authn := env.Auth
			return func() tea.Msg {
				// A failed local clear still signs the user out of the UI.
				_ = authn.Logout(context.Background())
				return nav.SignedOutMsg{}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{env: env, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}

	var sections []string
	sections = append(sections, theme.Title.Width(width).Render("Smart MCQ Console"))
	sub := "Signed in as " + h.env.User
	if h.env.User == "" {
		sub = "Not signed in"
	}
	sections = append(sections, theme.Subtitle.Width(width).Render(sub+"  ·  "+h.env.Config.API.BaseURL))
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Panel("Menu", h.menu.View(), cw)))

	return "\n" + strings.Join(sections, "\n\n")
}

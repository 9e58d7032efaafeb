// Package tests is the test-bank listing of a course.
package tests

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/analytics"
	"github.com/abhisek/smartmcq/internal/screens/editor"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loadedMsg struct {
	stamp nav.Stamp
	tests []model.TestSummary
	err   error
}

// TestsScreen lists the tests of a course.
type TestsScreen struct {
	env    *nav.Env
	course nav.CourseRef
	scope  *nav.Scope

	tests  []model.TestSummary
	cursor components.Cursor
	loaded bool
	errMsg string
}

var _ screen.Screen = (*TestsScreen)(nil)
var _ screen.KeyHintProvider = (*TestsScreen)(nil)
var _ screen.Disposer = (*TestsScreen)(nil)

// New creates the test-bank listing.
func New(env *nav.Env, course nav.CourseRef) *TestsScreen {
	return &TestsScreen{env: env, course: course, scope: nav.NewScope()}
}

func (s *TestsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *TestsScreen) load() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loaded = false
	s.errMsg = ""
	backend, id := s.env.API, s.course.ID
	return func() tea.Msg {
		ts, err := backend.Tests(ctx, id)
		return loadedMsg{stamp: stamp, tests: ts, err: err}
	}
}

func (s *TestsScreen) Title() string { return s.course.Label() + " · Test Bank" }

func (s *TestsScreen) Dispose() { s.scope.Dispose() }

func (s *TestsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Edit"},
		{Key: "n", Description: "New test"},
		{Key: "a", Description: "Analytics"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TestsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.errMsg = api.Message(msg.err, api.KindLoad)
			return s, nav.CheckAuth(msg.err)
		}
		s.tests = msg.tests
		s.cursor.SetLen(len(s.tests))
		return s, nil

	case nav.TestsChangedMsg:
		if msg.CourseID == s.course.ID {
			return s, s.load()
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, nav.Emit(router.PopScreenMsg{})
		case "r":
			return s, s.load()
		case "up", "k":
			s.cursor.Move(-1)
		case "down", "j":
			s.cursor.Move(1)
		case "n":
			if s.errMsg == "" && s.loaded {
				return s, nav.Emit(router.PushScreenMsg{Screen: editor.New(s.env, s.course)})
			}
		case "enter":
			if t, ok := s.selected(); ok {
				return s, nav.Emit(router.PushScreenMsg{Screen: editor.Edit(s.env, s.course, t.ID)})
			}
		case "a":
			if t, ok := s.selected(); ok {
				return s, nav.Emit(router.PushScreenMsg{Screen: analytics.New(s.env, s.course, t.ID, t.Title)})
			}
		}
	}
	return s, nil
}

func (s *TestsScreen) selected() (model.TestSummary, bool) {
	if s.errMsg != "" || s.cursor.Index >= len(s.tests) {
		return model.TestSummary{}, false
	}
	return s.tests[s.cursor.Index], true
}

func (s *TestsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading tests...")
	}
	if len(s.tests) == 0 {
		return layout.RenderStatus(width, "No tests yet. Press n to create one.")
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	b.WriteString("\n")
	start, end := s.cursor.Window(height - 2)
	for i := start; i < end; i++ {
		t := s.tests[i]
		title := t.Title
		if title == "" {
			title = t.ID
		}
		if i == s.cursor.Index {
			b.WriteString(theme.Selected.Render("  ▸ " + title))
		} else {
			b.WriteString(theme.Unselected.Render("    " + title))
		}
		meta := fmt.Sprintf("  %d questions", t.QuestionCount)
		if !t.UpdatedAt.IsZero() {
			meta += "  ·  updated " + t.UpdatedAt.Local().Format("Jan 02, 2006 15:04")
		}
		b.WriteString(dim.Render(meta))
		b.WriteString("\n")
	}
	return b.String()
}

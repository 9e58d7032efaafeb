// Package course is the menu of a single course.
package course

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/banks"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/screens/tests"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loadedMsg struct {
	stamp  nav.Stamp
	course *model.Course
	err    error
}

// CourseScreen offers the question banks and the test bank of a course.
type CourseScreen struct {
	env   *nav.Env
	ref   nav.CourseRef
	scope *nav.Scope

	course *model.Course
	menu   components.Menu
	loaded bool
	errMsg string
}

var _ screen.Screen = (*CourseScreen)(nil)
var _ screen.KeyHintProvider = (*CourseScreen)(nil)
var _ screen.Disposer = (*CourseScreen)(nil)

// New creates the course menu.
func New(env *nav.Env, ref nav.CourseRef) *CourseScreen {
	s := &CourseScreen{env: env, ref: ref, scope: nav.NewScope()}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Question Banks", Action: func() tea.Cmd {
			return nav.Emit(router.PushScreenMsg{Screen: banks.New(env, s.ref)})
		}},
		{Label: "Test Bank", Action: func() tea.Cmd {
			return nav.Emit(router.PushScreenMsg{Screen: tests.New(env, s.ref)})
		}},
	})
	return s
}

func (s *CourseScreen) Init() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loaded = false
	s.errMsg = ""
	backend, id := s.env.API, s.ref.ID
	return func() tea.Msg {
		c, err := backend.Course(ctx, id)
		return loadedMsg{stamp: stamp, course: c, err: err}
	}
}

func (s *CourseScreen) Title() string { return s.ref.Label() }

func (s *CourseScreen) Dispose() { s.scope.Dispose() }

func (s *CourseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CourseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		s.course = msg.course
		if s.ref.Name == "" {
			s.ref.Name = msg.course.Name
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, nav.Emit(router.PopScreenMsg{})
		case "r":
			if s.errMsg != "" {
				return s, s.Init()
			}
			return s, nil
		}
		if s.errMsg != "" || !s.loaded {
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *CourseScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading course...")
	}

	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}
	var sections []string
	sections = append(sections, theme.Title.Width(width).Render(s.ref.Label()))
	if s.course.Description != "" {
		sections = append(sections, theme.Subtitle.Width(width).Render(s.course.Description))
	}
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Panel("Course", s.menu.View(), cw)))
	return "\n" + strings.Join(sections, "\n\n")
}

// Package courses lists the courses visible to the signed-in user.
package courses

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/course"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loadedMsg struct {
	stamp   nav.Stamp
	courses []model.Course
	err     error
}

// CoursesScreen lists courses.
type CoursesScreen struct {
	env   *nav.Env
	scope *nav.Scope

	courses []model.Course
	cursor  components.Cursor
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)
var _ screen.Disposer = (*CoursesScreen)(nil)

// New creates the course listing.
func New(env *nav.Env) *CoursesScreen {
	return &CoursesScreen{env: env, scope: nav.NewScope()}
}

func (s *CoursesScreen) Init() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loaded = false
	s.errMsg = ""
	backend := s.env.API
	return func() tea.Msg {
		cs, err := backend.Courses(ctx)
		return loadedMsg{stamp: stamp, courses: cs, err: err}
	}
}

func (s *CoursesScreen) Title() string { return "Courses" }

func (s *CoursesScreen) Dispose() { s.scope.Dispose() }

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		s.courses = msg.courses
		s.cursor.SetLen(len(s.courses))
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, nav.Emit(router.PopScreenMsg{})
		case "r":
			if s.errMsg != "" {
				return s, s.Init()
			}
		case "up", "k":
			s.cursor.Move(-1)
		case "down", "j":
			s.cursor.Move(1)
		case "enter":
			if s.errMsg == "" && s.cursor.Index < len(s.courses) {
				c := s.courses[s.cursor.Index]
				next := course.New(s.env, nav.CourseRef{ID: c.ID, Name: c.Name})
				return s, nav.Emit(router.PushScreenMsg{Screen: next})
			}
		}
	}
	return s, nil
}

func (s *CoursesScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading courses...")
	}
	if len(s.courses) == 0 {
		return layout.RenderStatus(width, "No courses available.")
	}

	var b strings.Builder
	b.WriteString("\n")
	start, end := s.cursor.Window(height - 2)
	for i := start; i < end; i++ {
		c := s.courses[i]
		name := c.Name
		if name == "" {
			name = c.ID
		}
		if i == s.cursor.Index {
			b.WriteString(theme.Selected.Render("  ▸ " + name))
		} else {
			b.WriteString(theme.Unselected.Render("    " + name))
		}
		if c.Description != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + c.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Package banks lists the question banks (chapters) of a course.
package banks

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/screens/questions"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loadedMsg struct {
	stamp nav.Stamp
	banks []model.QuestionBank
	err   error
}

// BanksScreen lists the question banks of a course.
type BanksScreen struct {
	env    *nav.Env
	course nav.CourseRef
	scope  *nav.Scope

	banks  []model.QuestionBank
	cursor components.Cursor
	loaded bool
	errMsg string
}

var _ screen.Screen = (*BanksScreen)(nil)
var _ screen.KeyHintProvider = (*BanksScreen)(nil)
var _ screen.Disposer = (*BanksScreen)(nil)

// New creates the bank listing for course.
func New(env *nav.Env, course nav.CourseRef) *BanksScreen {
	return &BanksScreen{env: env, course: course, scope: nav.NewScope()}
}

func (s *BanksScreen) Init() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loaded = false
	s.errMsg = ""
	backend, id := s.env.API, s.course.ID
	return func() tea.Msg {
		bs, err := backend.QuestionBanks(ctx, id)
		return loadedMsg{stamp: stamp, banks: bs, err: err}
	}
}

func (s *BanksScreen) Title() string { return s.course.Label() + " · Question Banks" }

func (s *BanksScreen) Dispose() { s.scope.Dispose() }

func (s *BanksScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Questions"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BanksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		s.banks = msg.banks
		s.cursor.SetLen(len(s.banks))
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
			if s.errMsg == "" && s.cursor.Index < len(s.banks) {
				b := s.banks[s.cursor.Index]
				next := questions.New(s.env, s.course, nav.BankRef{ID: b.ID, Name: b.Name})
				return s, nav.Emit(router.PushScreenMsg{Screen: next})
			}
		}
	}
	return s, nil
}

func (s *BanksScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading question banks...")
	}
	if len(s.banks) == 0 {
		return layout.RenderStatus(width, "This course has no question banks.")
	}

	var b strings.Builder
	b.WriteString("\n")
	start, end := s.cursor.Window(height - 2)
	for i := start; i < end; i++ {
		bank := s.banks[i]
		name := nav.BankRef{Name: bank.Name}.Label()
		count := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d questions", bank.QuestionCount))
		if i == s.cursor.Index {
			b.WriteString(theme.Selected.Render("  ▸ " + name))
		} else {
			b.WriteString(theme.Unselected.Render("    " + name))
		}
		b.WriteString(count)
		b.WriteString("\n")
	}
	return b.String()
}

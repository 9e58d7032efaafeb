// Package questions lists the questions of a question bank.
package questions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/screens/questionedit"
	"github.com/abhisek/smartmcq/internal/similarity"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loadedMsg struct {
	stamp     nav.Stamp
	questions []model.Question
	err       error
}

// QuestionsScreen lists a bank's questions with their badges.
type QuestionsScreen struct {
	env    *nav.Env
	course nav.CourseRef
	bank   nav.BankRef
	scope  *nav.Scope

	questions []model.Question
	cursor    components.Cursor
	answers   bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*QuestionsScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionsScreen)(nil)
var _ screen.Disposer = (*QuestionsScreen)(nil)

// New creates the question listing for bank.
func New(env *nav.Env, course nav.CourseRef, bank nav.BankRef) *QuestionsScreen {
	return &QuestionsScreen{env: env, course: course, bank: bank, scope: nav.NewScope()}
}

func (s *QuestionsScreen) Init() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loaded = false
	s.errMsg = ""
	backend, id := s.env.API, s.bank.ID
	return func() tea.Msg {
		qs, err := backend.BankQuestions(ctx, id)
		return loadedMsg{stamp: stamp, questions: qs, err: err}
	}
}

func (s *QuestionsScreen) Title() string { return s.bank.Label() }

func (s *QuestionsScreen) Dispose() { s.scope.Dispose() }

func (s *QuestionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Edit"},
		{Key: "v", Description: "Answers"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuestionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		s.questions = msg.questions
		s.cursor.SetLen(len(s.questions))
		return s, nil

	case nav.QuestionSavedMsg:
		for i := range s.questions {
			if s.questions[i].ID == msg.Question.ID {
				s.questions[i] = msg.Question.Clone()
			}
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
		case "up", "k":
			s.cursor.Move(-1)
		case "down", "j":
			s.cursor.Move(1)
		case "v":
			s.answers = !s.answers
		case "enter":
			if q, ok := s.selected(); ok {
				return s, nav.Emit(router.PushScreenMsg{Screen: questionedit.New(s.env, q)})
			}
		}
	}
	return s, nil
}

func (s *QuestionsScreen) selected() (model.Question, bool) {
	if s.errMsg != "" || s.cursor.Index >= len(s.questions) {
		return model.Question{}, false
	}
	return s.questions[s.cursor.Index], true
}

// EditLink is the web console link for the selected question.
func (s *QuestionsScreen) EditLink() string {
	q, ok := s.selected()
	if !ok || s.env.Config.API.WebURL == "" {
		return ""
	}
	return similarity.DeepLink(s.env.Config.API.WebURL, s.course.ID, s.bank.ID, q.ID)
}

func (s *QuestionsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading questions...")
	}
	if len(s.questions) == 0 {
		return layout.RenderStatus(width, "This question bank is empty.")
	}

	cfg := s.env.Display()
	preview := s.env.PreviewLength()
	if max := width - 30; preview > max && max > 20 {
		preview = max
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("\n  %s · %d questions", s.course.Label(), len(s.questions))))
	b.WriteString("\n\n")
	start, end := s.cursor.Window(height - 6)
	for i := start; i < end; i++ {
		q := s.questions[i]
		opts := render.Options{PreviewLength: preview, ShowBadges: true}
		prefix := "    "
		if i == s.cursor.Index {
			prefix = theme.Selected.Render("  ▸ ")
			opts.ShowAnswers = s.answers
		}
		b.WriteString(prefix + indent(render.Question(q, cfg, opts)))
		b.WriteString("\n")
	}
	if link := s.EditLink(); link != "" {
		b.WriteString("\n")
		b.WriteString(theme.Link.Render("  " + link))
	}
	return b.String()
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}

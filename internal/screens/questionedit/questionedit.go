// Package questionedit is the dialog for editing a question's Bloom level,
// difficulty and explanation.
package questionedit

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/assist"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

const (
	focusLevel = iota
	focusDifficulty
	focusExplanation
	focusCount
)

type savedMsg struct {
	stamp    nav.Stamp
	question *model.Question
	err      error
}

type suggestedMsg struct {
	stamp      nav.Stamp
	suggestion *assist.Suggestion
	err        error
}

// EditScreen edits one question's metadata.
type EditScreen struct {
	env      *nav.Env
	scope    *nav.Scope
	question model.Question

	level       components.Selector
	difficulty  components.Selector
	explanation components.TextInput
	focus       int

	saving     bool
	suggesting bool
	errMsg     string
	notice     string
}

var _ screen.Screen = (*EditScreen)(nil)
var _ screen.KeyHintProvider = (*EditScreen)(nil)
var _ screen.Disposer = (*EditScreen)(nil)
var _ screen.Capturer = (*EditScreen)(nil)

// New opens the dialog over q.
func New(env *nav.Env, q model.Question) *EditScreen {
	levels := []string{model.TaxonomyLevel("").Label()}
	for _, l := range model.AllLevels() {
		levels = append(levels, l.Label())
	}
	diffs := []string{model.Difficulty("").Label()}
	for _, d := range model.AllDifficulties() {
		diffs = append(diffs, d.Label())
	}

	expl := components.NewTextInput("Explanation: ", "why the key is correct", 2000)
	expl.SetValue(q.Explanation)

	return &EditScreen{
		env:         env,
		scope:       nav.NewScope(),
		question:    q.Clone(),
		level:       components.NewSelector("Bloom level", levels, model.ParseLevel(string(q.Taxonomy)).Label()),
		difficulty:  components.NewSelector("Difficulty", diffs, model.ParseDifficulty(string(q.Difficulty)).Label()),
		explanation: expl,
	}
}

func (s *EditScreen) Init() tea.Cmd { return nil }

func (s *EditScreen) Title() string { return "Edit Question" }

func (s *EditScreen) Dispose() { s.scope.Dispose() }

// CapturesInput is always true; the dialog handles Esc itself.
func (s *EditScreen) CapturesInput() bool { return true }

func (s *EditScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Change"},
		{Key: "Ctrl+S", Description: "Save"},
	}
	if s.assistEnabled() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: "Suggest"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Cancel"})
}

func (s *EditScreen) assistEnabled() bool {
	return s.env.Assist != nil && s.env.Assist.Enabled()
}

// Edited returns the question with the dialog's current values.
func (s *EditScreen) Edited() model.Question {
	q := s.question.Clone()
	q.Taxonomy = ""
	if i := s.level.Selected; i > 0 {
		q.Taxonomy = model.AllLevels()[i-1]
	}
	q.Difficulty = ""
	if i := s.difficulty.Selected; i > 0 {
		q.Difficulty = model.AllDifficulties()[i-1]
	}
	q.Explanation = strings.TrimSpace(s.explanation.Value())
	return q
}

func (s *EditScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		s.saving = false
		if msg.err != nil {
			s.errMsg = api.Message(msg.err, api.KindSave)
			return s, nav.CheckAuth(msg.err)
		}
		return s, nav.Emit(router.PopScreenMsg{Notify: nav.QuestionSavedMsg{Question: *msg.question}})

	case suggestedMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		s.suggesting = false
		if msg.err != nil {
			s.errMsg = "Suggestion failed: " + msg.err.Error()
			return s, nil
		}
		s.apply(*msg.suggestion)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, nav.Emit(router.PopScreenMsg{})
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % focusCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + focusCount - 1) % focusCount)
		case "ctrl+s":
			return s, s.save()
		case "ctrl+g":
			return s, s.suggest()
		case "left", "right":
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			switch s.focus {
			case focusLevel:
				s.level.Move(delta)
				return s, nil
			case focusDifficulty:
				s.difficulty.Move(delta)
				return s, nil
			}
		}
	}

	if s.focus != focusExplanation {
		return s, nil
	}
	var cmd tea.Cmd
	s.explanation, cmd = s.explanation.Update(msg)
	return s, cmd
}

func (s *EditScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	if f == focusExplanation {
		return s.explanation.Focus()
	}
	s.explanation.Blur()
	return nil
}

func (s *EditScreen) apply(sg assist.Suggestion) {
	s.level.Set(sg.Taxonomy.Label())
	s.difficulty.Set(sg.Difficulty.Label())
	if strings.TrimSpace(s.explanation.Value()) == "" {
		s.explanation.SetValue(sg.Explanation)
	}
	s.notice = sg.Rationale
	s.errMsg = ""
}

func (s *EditScreen) save() tea.Cmd {
	if s.saving {
		return nil
	}
	s.saving = true
	s.errMsg = ""
	ctx, stamp := s.scope.Begin()
	backend, q := s.env.API, s.Edited()
	return func() tea.Msg {
		saved, err := backend.UpdateQuestion(ctx, q)
		return savedMsg{stamp: stamp, question: saved, err: err}
	}
}

func (s *EditScreen) suggest() tea.Cmd {
	if s.suggesting {
		return nil
	}
	if !s.assistEnabled() {
		s.errMsg = assist.ErrUnavailable.Error()
		return nil
	}
	s.suggesting = true
	s.errMsg = ""
	ctx, stamp := s.scope.Begin()
	svc, q := s.env.Assist, s.Edited()
	return func() tea.Msg {
		sg, err := svc.Suggest(ctx, q)
		if err == nil && sg == nil {
			err = errors.New("empty suggestion")
		}
		return suggestedMsg{stamp: stamp, suggestion: sg, err: err}
	}
}

func (s *EditScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Selected.Render("Edit Question"))
	b.WriteString("\n\n")
	b.WriteString(render.Question(s.question, s.env.Display(), render.Options{
		PreviewLength: cw - 4,
		ShowAnswers:   true,
	}))
	b.WriteString("\n\n")
	b.WriteString(s.level.View(s.focus == focusLevel))
	b.WriteString("\n")
	b.WriteString(s.difficulty.View(s.focus == focusDifficulty))
	b.WriteString("\n\n")
	b.WriteString(s.explanation.View())
	b.WriteString("\n\n")

	switch {
	case s.saving:
		b.WriteString(theme.Hint.Render("Saving..."))
	case s.suggesting:
		b.WriteString(theme.Hint.Render("Asking for a suggestion..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	case s.notice != "":
		b.WriteString(theme.Hint.Render(s.notice))
	}

	frameH := height - 2
	if frameH < 16 {
		frameH = 16
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.DialogFrame(b.String(), cw+4, frameH))
}

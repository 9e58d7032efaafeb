// Package editor is the screen for assembling a test from the question
// pool of its course.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/api"
	vm "github.com/abhisek/smartmcq/internal/editor"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/screens/questionedit"
	"github.com/abhisek/smartmcq/internal/screens/similarity"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

const (
	zoneTitle = iota
	zoneDescription
	zoneSearch
	zonePool
	zoneSelected
	zoneCount
)

// separators are the answer separators offered by the p key.
var separators = []string{".", ")", ":", "-"}

type testLoadedMsg struct {
	stamp nav.Stamp
	state *vm.State
	err   error
}

type poolLoadedMsg struct {
	stamp nav.Stamp
	pool  vm.Pool
}

type similarityMsg struct {
	stamp  nav.Stamp
	report *model.SimilarityReport
	err    error
}

type savedMsg struct {
	stamp nav.Stamp
	test  *model.Test
	err   error
}

// proceedMsg comes back from the similarity dialog when the user saves
// despite the overlap.
type proceedMsg struct {
	stamp nav.Stamp
}

// EditorScreen creates or edits one test.
type EditorScreen struct {
	env    *nav.Env
	course nav.CourseRef
	testID string
	scope  *nav.Scope

	state       *vm.State
	pendingPool *vm.Pool

	title       components.TextInput
	description components.TextInput
	search      components.TextInput
	zone        int
	pool        components.Cursor
	selected    components.Cursor
	bank        int

	poolLoaded bool
	loadErr    string
	saveErr    string
	checking   bool
	saving     bool
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)
var _ screen.Disposer = (*EditorScreen)(nil)
var _ screen.Capturer = (*EditorScreen)(nil)

// New opens the editor for a new test in course.
func New(env *nav.Env, course nav.CourseRef) *EditorScreen {
	s := newScreen(env, course, "")
	s.setState(vm.New(course.ID, env.Display()))
	return s
}

// Edit opens the editor for an existing test.
func Edit(env *nav.Env, course nav.CourseRef, testID string) *EditorScreen {
	return newScreen(env, course, testID)
}

func newScreen(env *nav.Env, course nav.CourseRef, testID string) *EditorScreen {
	return &EditorScreen{
		env:         env,
		course:      course,
		testID:      testID,
		scope:       nav.NewScope(),
		title:       components.NewTextInput("Title: ", "untitled test", 200),
		description: components.NewTextInput("Description: ", "optional", 500),
		search:      components.NewTextInput("Search: ", "filter questions", 100),
		zone:        zonePool,
	}
}

// State returns the view-model, or nil before the test has loaded.
func (s *EditorScreen) State() *vm.State { return s.state }

func (s *EditorScreen) setState(st *vm.State) {
	s.state = st
	s.title.SetValue(st.Test.Title)
	s.description.SetValue(st.Test.Description)
	if s.pendingPool != nil {
		st.SetPool(*s.pendingPool)
		s.pendingPool = nil
	}
	s.syncCursors()
}

func (s *EditorScreen) Init() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loadErr = ""
	s.poolLoaded = false
	backend, courseID, testID := s.env.API, s.course.ID, s.testID

	loadPool := func() tea.Msg {
		return poolLoadedMsg{stamp: stamp, pool: vm.LoadPool(ctx, backend, courseID)}
	}
	if testID == "" {
		return loadPool
	}
	s.state = nil
	loadTest := func() tea.Msg {
		st, err := vm.Load(ctx, backend, courseID, testID)
		return testLoadedMsg{stamp: stamp, state: st, err: err}
	}
	return tea.Batch(loadTest, loadPool)
}

func (s *EditorScreen) Title() string {
	if s.testID == "" {
		return "New Test"
	}
	return "Edit Test"
}

func (s *EditorScreen) Dispose() { s.scope.Dispose() }

// CapturesInput is always true; the editor handles Esc itself.
func (s *EditorScreen) CapturesInput() bool { return true }

func (s *EditorScreen) KeyHints() []layout.KeyHint {
	if s.inText() {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next"},
			{Key: "Ctrl+S", Description: "Save"},
			{Key: "Esc", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Space", Description: "Add/Remove"},
		{Key: "e", Description: "Edit question"},
		{Key: "1-6", Description: "Level"},
		{Key: "b", Description: "Bank"},
		{Key: "c/p/a", Description: "Format"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *EditorScreen) inText() bool {
	return s.zone == zoneTitle || s.zone == zoneDescription || s.zone == zoneSearch
}

func (s *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case testLoadedMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		if msg.err != nil {
			s.loadErr = api.Message(msg.err, api.KindLoad)
			return s, nav.CheckAuth(msg.err)
		}
		s.setState(msg.state)
		return s, nil

	case poolLoadedMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		s.poolLoaded = true
		if s.state == nil {
			s.pendingPool = &msg.pool
		} else {
			s.state.SetPool(msg.pool)
			s.syncCursors()
		}
		return s, nav.CheckAuth(msg.pool.Err)

	case similarityMsg:
		if !s.scope.Owns(msg.stamp) {
			return s, nil
		}
		s.checking = false
		if msg.err != nil {
			s.saveErr = api.Message(msg.err, api.KindSave)
			return s, nav.CheckAuth(msg.err)
		}
		if msg.report.HasMatches() {
			_, stamp := s.scope.Peek()
			dialog := similarity.New(s.env, s.course, *msg.report, proceedMsg{stamp: stamp})
			return s, nav.Emit(router.PushScreenMsg{Screen: dialog})
		}
		return s, s.save()

	case proceedMsg:
		if !s.scope.Owns(msg.stamp) {
			return s, nil
		}
		return s, s.save()

	case savedMsg:
		if !s.scope.Owns(msg.stamp) {
			return s, nil
		}
		s.saving = false
		if msg.err != nil {
			s.saveErr = api.Message(msg.err, api.KindSave)
			return s, nav.CheckAuth(msg.err)
		}
		return s, nav.Emit(router.PopScreenMsg{Notify: nav.TestsChangedMsg{CourseID: s.course.ID}})

	case nav.QuestionSavedMsg:
		if s.state != nil {
			s.state.ReplaceQuestion(msg.Question)
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, s.updateInput(msg)
}

func (s *EditorScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.loadErr != "" {
		switch key {
		case "esc":
			return s, nav.Emit(router.PopScreenMsg{})
		case "r":
			return s, s.Init()
		}
		return s, nil
	}
	if s.state == nil || s.saving || s.checking {
		if key == "esc" {
			return s, nav.Emit(router.PopScreenMsg{})
		}
		return s, nil
	}

	switch key {
	case "ctrl+s":
		return s, s.submit()
	case "tab":
		return s, s.setZone((s.zone + 1) % zoneCount)
	case "shift+tab":
		return s, s.setZone((s.zone + zoneCount - 1) % zoneCount)
	case "esc":
		if s.inText() {
			return s, s.setZone(zonePool)
		}
		return s, nav.Emit(router.PopScreenMsg{})
	}

	if s.inText() {
		if key == "enter" {
			return s, s.setZone(s.zone + 1)
		}
		return s, s.updateInput(msg)
	}

	cfg := &s.state.Test.Configuration
	switch key {
	case "up", "k":
		s.activeCursor().Move(-1)
	case "down", "j":
		s.activeCursor().Move(1)
	case "space", " ", "enter", "x":
		if q, ok := s.current(); ok {
			s.state.ToggleQuestionSelection(q)
			s.syncCursors()
		}
	case "e":
		if q, ok := s.current(); ok {
			return s, nav.Emit(router.PushScreenMsg{Screen: questionedit.New(s.env, q)})
		}
	case "1", "2", "3", "4", "5", "6":
		s.state.ToggleLevel(model.AllLevels()[key[0]-'1'])
		s.syncCursors()
	case "b":
		s.cycleBank()
	case "c":
		if cfg.LetterCase == model.Lowercase {
			cfg.LetterCase = model.Uppercase
		} else {
			cfg.LetterCase = model.Lowercase
		}
	case "p":
		i := slices.Index(separators, cfg.Separator)
		cfg.Separator = separators[(i+1)%len(separators)]
	case "a":
		cfg.IncludeAnswerKey = !cfg.IncludeAnswerKey
	}
	return s, nil
}

func (s *EditorScreen) setZone(z int) tea.Cmd {
	s.zone = z
	s.title.Blur()
	s.description.Blur()
	s.search.Blur()
	switch z {
	case zoneTitle:
		return s.title.Focus()
	case zoneDescription:
		return s.description.Focus()
	case zoneSearch:
		return s.search.Focus()
	}
	return nil
}

func (s *EditorScreen) updateInput(msg tea.Msg) tea.Cmd {
	if s.state == nil {
		return nil
	}
	var cmd tea.Cmd
	switch s.zone {
	case zoneTitle:
		s.title, cmd = s.title.Update(msg)
		s.state.Test.Title = s.title.Value()
	case zoneDescription:
		s.description, cmd = s.description.Update(msg)
		s.state.Test.Description = s.description.Value()
	case zoneSearch:
		s.search, cmd = s.search.Update(msg)
		s.state.SetQuery(s.search.Value())
		s.syncCursors()
	}
	return cmd
}

func (s *EditorScreen) cycleBank() {
	s.bank = (s.bank + 1) % (len(s.state.Banks) + 1)
	if s.bank == 0 {
		s.state.SetBankFilter("")
	} else {
		s.state.SetBankFilter(s.state.Banks[s.bank-1].ID)
	}
	s.syncCursors()
}

func (s *EditorScreen) activeCursor() *components.Cursor {
	if s.zone == zoneSelected {
		return &s.selected
	}
	return &s.pool
}

func (s *EditorScreen) syncCursors() {
	if s.state == nil {
		return
	}
	s.pool.SetLen(len(s.state.Filtered()))
	s.selected.SetLen(s.state.SelectedCount())
}

// current is the question under the cursor of the focused list.
func (s *EditorScreen) current() (model.Question, bool) {
	if s.zone == zoneSelected {
		refs := s.state.Test.Questions
		if s.selected.Index < len(refs) {
			return refs[s.selected.Index].Question, true
		}
		return model.Question{}, false
	}
	filtered := s.state.Filtered()
	if s.pool.Index < len(filtered) {
		return filtered[s.pool.Index], true
	}
	return model.Question{}, false
}

// submit validates, checks a new test for overlap and then saves.
func (s *EditorScreen) submit() tea.Cmd {
	if err := s.state.Validate(); err != nil {
		s.saveErr = invalidMessage(err)
		return nil
	}
	s.saveErr = ""
	if !s.state.IsNew() || s.state.SelectedCount() == 0 {
		return s.save()
	}

	s.checking = true
	ctx, stamp := s.scope.Peek()
	backend, courseID, ids := s.env.API, s.course.ID, s.state.Test.QuestionIDs()
	return func() tea.Msg {
		report, err := backend.CheckSimilarity(ctx, courseID, ids)
		return similarityMsg{stamp: stamp, report: report, err: err}
	}
}

func (s *EditorScreen) save() tea.Cmd {
	if err := s.state.Validate(); err != nil {
		s.saveErr = invalidMessage(err)
		return nil
	}
	s.saving = true
	s.saveErr = ""
	snapshot := *s.state
	snapshot.Test.Questions = slices.Clone(s.state.Test.Questions)
	ctx, stamp := s.scope.Peek()
	backend := s.env.API
	return func() tea.Msg {
		t, err := vm.Save(ctx, backend, &snapshot)
		return savedMsg{stamp: stamp, test: t, err: err}
	}
}

func (s *EditorScreen) View(width, height int) string {
	if s.loadErr != "" {
		return layout.RenderError(width, s.loadErr)
	}
	if s.state == nil {
		return layout.RenderStatus(width, "Loading test...")
	}

	var b strings.Builder
	b.WriteString(s.title.View())
	b.WriteString("\n")
	b.WriteString(s.description.View())
	b.WriteString("\n")
	b.WriteString(s.formatLine())
	b.WriteString("\n")

	switch {
	case s.saving:
		b.WriteString(theme.Hint.Render("Saving..."))
	case s.checking:
		b.WriteString(theme.Hint.Render("Checking for similar tests..."))
	case s.saveErr != "":
		b.WriteString(theme.ErrorText.Render(s.saveErr))
	}
	b.WriteString("\n")
	if s.state.PoolError != "" {
		b.WriteString(theme.Banner.Render("Some questions could not be loaded: " + s.state.PoolError))
		b.WriteString("\n")
	}

	listHeight := height - lipgloss.Height(b.String()) - 6
	if listHeight < 3 {
		listHeight = 3
	}

	if layout.IsCompactWidth(width) {
		b.WriteString(s.viewPool(width-2, listHeight/2))
		b.WriteString("\n")
		b.WriteString(s.viewSelected(width-2, listHeight/2))
		return b.String()
	}
	half := width/2 - 2
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.viewPool(half, listHeight), "  ", s.viewSelected(half, listHeight)))
	return b.String()
}

func (s *EditorScreen) formatLine() string {
	cfg := s.state.Test.Configuration
	key := "off"
	if cfg.IncludeAnswerKey {
		key = "on"
	}
	sample := render.AnswerLabel(0, cfg) + " " + render.AnswerLabel(1, cfg)
	return theme.Hint.Render(fmt.Sprintf("Labels %s   Answer key %s", sample, key))
}

func (s *EditorScreen) viewPool(width, height int) string {
	var b strings.Builder
	b.WriteString(s.search.View())
	b.WriteString("\n")

	var levels []string
	for i, l := range model.AllLevels() {
		label := fmt.Sprintf("%d %s", i+1, l.Label())
		if slices.Contains(s.state.Levels, l) {
			levels = append(levels, theme.Selected.Render("["+label+"]"))
		} else {
			levels = append(levels, theme.Hint.Render(" "+label+" "))
		}
	}
	b.WriteString(strings.Join(levels, ""))
	b.WriteString("\n")
	bank := "All banks"
	if s.bank > 0 && s.bank <= len(s.state.Banks) {
		bank = nav.BankRef{Name: s.state.Banks[s.bank-1].Name}.Label()
	}
	b.WriteString(theme.Hint.Render("Bank: " + bank))
	b.WriteString("\n\n")

	filtered := s.state.Filtered()
	switch {
	case !s.poolLoaded:
		b.WriteString(theme.Hint.Render("Loading questions..."))
	case len(filtered) == 0:
		b.WriteString(theme.Hint.Render("No questions match the filters."))
	default:
		cfg := s.env.Display()
		start, end := s.pool.Window(height)
		for i := start; i < end; i++ {
			q := filtered[i]
			b.WriteString(s.row(q, cfg, i == s.pool.Index && s.zone == zonePool, width, false))
			b.WriteString("\n")
		}
	}

	title := fmt.Sprintf("Question Pool (%d)", len(filtered))
	return components.Panel(title, b.String(), width)
}

func (s *EditorScreen) viewSelected(width, height int) string {
	var b strings.Builder
	if n := s.state.SelectedCount(); n > 0 {
		d := s.state.Distribution()
		b.WriteString(distributionLine(d.Difficulty))
		b.WriteString("\n")
		b.WriteString(distributionLine(d.Taxonomy))
		b.WriteString("\n\n")

		cfg := s.state.Test.Configuration
		start, end := s.selected.Window(height)
		for i := start; i < end; i++ {
			q := s.state.Test.Questions[i].Question
			focused := i == s.selected.Index && s.zone == zoneSelected
			b.WriteString(fmt.Sprintf("%2d. ", i+1))
			b.WriteString(s.row(q, cfg, focused, width-4, focused))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(theme.Hint.Render("Add questions from the pool with Space."))
	}
	return components.Panel(s.state.SelectedHeader(), b.String(), width)
}

func (s *EditorScreen) row(q model.Question, cfg model.Configuration, focused bool, width int, answers bool) string {
	preview := s.env.PreviewLength()
	if max := width - 32; preview > max {
		preview = max
	}
	if preview < 10 {
		preview = 10
	}
	line := render.Question(q, cfg, render.Options{
		PreviewLength: preview,
		ShowBadges:    true,
		ShowAnswers:   answers,
		Action: func(q model.Question) string {
			if s.state.IsSelected(q.ID) {
				return "[Remove]"
			}
			return "[Add]"
		},
	})
	if focused {
		return theme.Selected.Render("▸ ") + line
	}
	return "  " + line
}

// invalidMessage is the inline text for a failed client-side check.
func invalidMessage(err error) string {
	if errors.Is(err, vm.ErrTitleRequired) {
		return "Title is required"
	}
	return err.Error()
}

func distributionLine(counts []vm.Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Label, c.N))
	}
	return theme.Hint.Render(strings.Join(parts, " · "))
}

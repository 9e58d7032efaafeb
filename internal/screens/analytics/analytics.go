// Package analytics shows the psychometric analytics of one test.
package analytics

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/analytics"
	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

type loadedMsg struct {
	stamp nav.Stamp
	test  *model.Test
	err   error
}

// AnalyticsScreen loads a test and renders its analytics report.
type AnalyticsScreen struct {
	env    *nav.Env
	course nav.CourseRef
	testID string
	scope  *nav.Scope

	title  string
	report analytics.Report
	offset int
	loaded bool
	errMsg string
}

var _ screen.Screen = (*AnalyticsScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyticsScreen)(nil)
var _ screen.Disposer = (*AnalyticsScreen)(nil)

// New creates the analytics screen for testID.
func New(env *nav.Env, course nav.CourseRef, testID, title string) *AnalyticsScreen {
	return &AnalyticsScreen{env: env, course: course, testID: testID, title: title, scope: nav.NewScope()}
}

func (s *AnalyticsScreen) Init() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	s.loaded = false
	s.errMsg = ""
	backend, courseID, testID := s.env.API, s.course.ID, s.testID
	return func() tea.Msg {
		t, err := backend.Test(ctx, courseID, testID)
		return loadedMsg{stamp: stamp, test: t, err: err}
	}
}

func (s *AnalyticsScreen) Title() string { return "Analytics" }

func (s *AnalyticsScreen) Dispose() { s.scope.Dispose() }

func (s *AnalyticsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

// Report returns the computed report.
func (s *AnalyticsScreen) Report() analytics.Report { return s.report }

func (s *AnalyticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		if msg.test.Title != "" {
			s.title = msg.test.Title
		}
		s.report = analytics.Compute(msg.test.MemberQuestions())
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
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *AnalyticsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading analytics...")
	}

	cw := components.ContentWidth(width)
	lines := strings.Split(s.render(cw), "\n")
	if s.offset > len(lines)-1 {
		s.offset = len(lines) - 1
	}
	end := s.offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		strings.Join(lines[s.offset:end], "\n"))
}

func (s *AnalyticsScreen) render(cw int) string {
	r := s.report
	var sections []string

	sections = append(sections, theme.Title.Render(s.title)+"\n"+
		theme.Hint.Render(fmt.Sprintf("%d questions", r.QuestionCount)))

	summary := fmt.Sprintf("Mean difficulty      %s\nMean discrimination  %s\nMean p-value         %s",
		r.MeanDifficulty, r.MeanDiscrimination, r.MeanPValue)
	sections = append(sections, components.Panel("Summary", summary, cw))

	sections = append(sections, components.Panel(
		fmt.Sprintf("Difficulty (%d with data)", r.WithDifficulty),
		histogram(r.Difficulty, r.WithDifficulty, cw-4), cw))
	sections = append(sections, components.Panel(
		fmt.Sprintf("Discrimination (%d with data)", r.WithDiscrimination),
		histogram(r.Discrimination, r.WithDiscrimination, cw-4), cw))

	in := r.Insights
	insights := fmt.Sprintf("Optimal   %d\nPoor      %d\nToo hard  %d\nToo easy  %d",
		in.Optimal, in.Poor, in.TooHard, in.TooEasy)
	sections = append(sections, components.Panel("Item Quality", insights, cw))

	sections = append(sections, components.Panel("Bloom × Difficulty", crossTab(r.CrossTab), cw))

	if len(r.SuccessRates) > 0 {
		var bars []string
		for _, sr := range r.SuccessRates {
			bars = append(bars, components.Bar{
				Label:      sr.Label,
				LabelWidth: 5,
				Fraction:   sr.Percent / 100,
				Value:      fmt.Sprintf("%.0f%%", sr.Percent),
				Width:      cw - 4,
			}.View())
		}
		sections = append(sections, components.Panel("Success Rate", strings.Join(bars, "\n"), cw))
	}

	if len(r.Scatter) > 0 {
		var pts []string
		for _, p := range r.Scatter {
			pts = append(pts, fmt.Sprintf("%5.1f  %5.1f  %s", p.Difficulty, p.Discrimination, p.Text))
		}
		sections = append(sections, components.Panel("Difficulty vs Discrimination",
			theme.Hint.Render(" diff   disc")+"\n"+strings.Join(pts, "\n"), cw))
	}

	return strings.Join(sections, "\n")
}

func histogram(bins []analytics.Bin, total, width int) string {
	labelWidth := 0
	for _, b := range bins {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}
	rows := make([]string, len(bins))
	for i, b := range bins {
		var frac float64
		if total > 0 {
			frac = float64(b.Count) / float64(total)
		}
		rows[i] = components.Bar{
			Label:      b.Label,
			LabelWidth: labelWidth,
			Fraction:   frac,
			Value:      fmt.Sprintf("%d", b.Count),
			Width:      width,
		}.View()
	}
	return strings.Join(rows, "\n")
}

func crossTab(ct analytics.CrossTab) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%-12s", "")))
	for _, d := range model.AllDifficulties() {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%8s", d.Label())))
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%8s", "Total")))
	for _, row := range ct.Rows {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-12s", row.Level.Label()))
		for _, d := range model.AllDifficulties() {
			b.WriteString(fmt.Sprintf("%8d", row.Counts[d]))
		}
		b.WriteString(fmt.Sprintf("%8d", row.Total))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-12s", "Total"))
	for _, d := range model.AllDifficulties() {
		b.WriteString(fmt.Sprintf("%8d", ct.ColumnTotal[d]))
	}
	b.WriteString(fmt.Sprintf("%8d", ct.Total))
	return b.String()
}

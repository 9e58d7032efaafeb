// Package similarity is the confirmation dialog shown when a new test
// overlaps existing tests.
package similarity

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	sim "github.com/abhisek/smartmcq/internal/similarity"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

const (
	buttonProceed = iota
	buttonReview
)

// DialogScreen renders a similarity report with two exits. Proceeding
// pops the dialog and delivers the caller's continuation message to the
// screen below; reviewing only pops.
type DialogScreen struct {
	dialog  *sim.Dialog
	proceed tea.Msg
	button  int
}

var _ screen.Screen = (*DialogScreen)(nil)
var _ screen.KeyHintProvider = (*DialogScreen)(nil)
var _ screen.Capturer = (*DialogScreen)(nil)

// New creates the dialog. proceed is delivered to the screen underneath
// when the user chooses to continue.
func New(env *nav.Env, course nav.CourseRef, report model.SimilarityReport, proceed tea.Msg) *DialogScreen {
	return &DialogScreen{
		dialog:  sim.NewDialog(report, course.ID, env.Config.API.WebURL),
		proceed: proceed,
		button:  buttonReview,
	}
}

func (s *DialogScreen) Init() tea.Cmd { return nil }

func (s *DialogScreen) Title() string { return "Similar Tests" }

// CapturesInput keeps Esc routed to the dialog's review exit.
func (s *DialogScreen) CapturesInput() bool { return true }

func (s *DialogScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Tests"},
		{Key: "Space", Description: "Details"},
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Review"},
	}
}

func (s *DialogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.dialog.MoveCursor(-1)
	case "down", "j":
		s.dialog.MoveCursor(1)
	case "space", " ":
		s.dialog.ToggleSelected()
	case "left", "right", "tab":
		s.button = 1 - s.button
	case "p":
		return s, s.exit(buttonProceed)
	case "r", "esc":
		return s, s.exit(buttonReview)
	case "enter":
		return s, s.exit(s.button)
	}
	return s, nil
}

func (s *DialogScreen) exit(button int) tea.Cmd {
	if button == buttonProceed {
		return nav.Emit(router.PopScreenMsg{Notify: s.proceed})
	}
	return nav.Emit(router.PopScreenMsg{})
}

func severityColor(v float64) color.Color {
	switch sim.SeverityOf(v) {
	case sim.SeverityHigh:
		return theme.Error
	case sim.SeverityMedium:
		return theme.Warning
	default:
		return theme.Success
	}
}

func (s *DialogScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	report := s.dialog.Report

	var b strings.Builder
	b.WriteString(theme.Banner.Render("⚠ " + s.dialog.Banner()))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d candidate questions · threshold %s",
		report.CandidateQuestionCount, sim.Percent(report.Threshold))))
	b.WriteString("\n\n")

	half := (cw - 14) / 2
	for i, t := range report.SimilarTests {
		score := lipgloss.NewStyle().Foreground(severityColor(t.Similarity)).Bold(true).
			Render(fmt.Sprintf("%4s", sim.Percent(t.Similarity)))
		title := t.Title
		if title == "" {
			title = t.TestID
		}
		marker := "  "
		style := theme.Unselected
		if i == s.dialog.Cursor {
			marker = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(marker+title) + "  " + score + "  " +
			theme.Hint.Render(sim.MatchedLabel(t)))
		b.WriteString("\n")

		if !s.dialog.IsExpanded(t.TestID) {
			continue
		}
		pairs := s.dialog.Pairs(t, half)
		if len(pairs) == 0 {
			b.WriteString(theme.Hint.Render("    No question pairs reported"))
			b.WriteString("\n")
		}
		for _, p := range pairs {
			left := lipgloss.NewStyle().Width(half).Foreground(theme.Text).Render(p.Candidate)
			right := lipgloss.NewStyle().Width(half).Foreground(theme.TextDim).Render(p.Existing)
			b.WriteString("    " + lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) +
				"  " + p.Similarity)
			b.WriteString("\n")
			if p.Link != "" {
				b.WriteString(theme.Link.Render("    " + p.Link))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(components.ButtonRow([]string{"Proceed anyway", "Review"}, s.button))

	frameH := height - 2
	if frameH < 12 {
		frameH = 12
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.DialogFrame(b.String(), cw+4, frameH))
}

package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// Selector cycles through a fixed list of options with left/right.
type Selector struct {
	Label    string
	Options  []string
	Selected int
}

// NewSelector selects the option equal to current, or the first one.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if o == current {
			s.Selected = i
		}
	}
	return s
}

// Move shifts the selection by delta, wrapping around.
func (s *Selector) Move(delta int) {
	n := len(s.Options)
	if n == 0 {
		return
	}
	s.Selected = ((s.Selected+delta)%n + n) % n
}

// Value returns the selected option.
func (s Selector) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected]
}

// Set selects value if it is one of the options.
func (s *Selector) Set(value string) {
	for i, o := range s.Options {
		if o == value {
			s.Selected = i
			return
		}
	}
}

// View renders the label and the options with the selected one
// highlighted.
func (s Selector) View(focused bool) string {
	parts := make([]string, len(s.Options))
	for i, o := range s.Options {
		if i == s.Selected {
			st := theme.Selected
			if !focused {
				st = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
			}
			parts[i] = st.Render("[" + o + "]")
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(" " + o + " ")
		}
	}
	label := lipgloss.NewStyle().Foreground(theme.Text).Render(s.Label + ": ")
	if focused {
		label = theme.Selected.Render(s.Label + ": ")
	}
	return label + strings.Join(parts, "")
}

package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// Bar is a labelled horizontal bar used by histograms.
type Bar struct {
	Label      string
	LabelWidth int
	// Fraction of the bar to fill, in [0,1].
	Fraction float64
	// Value is printed after the bar.
	Value string
	Width int
}

// View renders the bar.
func (b Bar) View() string {
	label := b.Label
	if pad := b.LabelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	result := lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "

	barWidth := b.Width - lipgloss.Width(result) - lipgloss.Width(b.Value) - 2
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth)*b.Fraction + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	result += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(b.Value)
	return result
}

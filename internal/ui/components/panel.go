package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// ContentWidth returns the inner width used for centred panels.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// DialogFrame wraps content in a double-border frame centred within the
// given dimensions.
func DialogFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Padding(0, 1).
		Render(content)
}

// Panel renders a titled rounded card at width.
func Panel(title, content string, width int) string {
	head := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Padding(0, 1).
		Render(head + "\n" + content)
}

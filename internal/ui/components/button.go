package components

import (
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// Button is a styled button. Focus decides which of a row of buttons
// fires on Enter; the owning screen handles the key.
type Button struct {
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow renders labels side by side with the focused one highlighted.
func ButtonRow(labels []string, focused int) string {
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += "  "
		}
		out += NewButton(l, i == focused).View()
	}
	return out
}

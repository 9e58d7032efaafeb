// Package theme holds the console's colour palette and shared styles.
package theme

import "charm.land/lipgloss/v2"

// Palette. The console assumes a dark terminal background.
var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#38BDF8") // sky
	Accent    = lipgloss.Color("#F59E0B") // amber, medium difficulty
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#FACC15")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#E5E7EB")
	TextDim   = lipgloss.Color("#9CA3AF")
	BgCard    = lipgloss.Color("#111827")
	Border    = lipgloss.Color("#374151")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Card frames forms and dialogs.
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected   = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	// Correct marks the keyed answer.
	Correct = lipgloss.NewStyle().Foreground(Success).Bold(true)

	Banner    = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Link      = lipgloss.NewStyle().Foreground(Secondary).Underline(true)

	ProgressFilled = lipgloss.NewStyle().Background(Primary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

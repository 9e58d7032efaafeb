// Package screen defines the contract between the router and the console's
// screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartmcq/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Disposer is implemented by screens that own in-flight work. The router
// calls Dispose when the screen leaves the stack.
type Disposer interface {
	Dispose()
}

// Capturer is implemented by screens with a focused text field. While
// CapturesInput is true the app does not treat Esc or q as navigation.
type Capturer interface {
	CapturesInput() bool
}

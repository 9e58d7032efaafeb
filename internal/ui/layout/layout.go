// Package layout draws the console frame around the active screen: a
// header with the screen title and signed-in user, and a footer of key
// hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// The console needs at least MinWidth x MinHeight cells. Below
// CompactWidth screens drop side panels.
const (
	MinWidth     = 80
	MinHeight    = 24
	CompactWidth = 100
)

const appName = "Smart MCQ"

// KeyHint is one footer entry, e.g. {"Ctrl+S", "Save"}.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool { return width < CompactWidth }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("The console needs a %dx%d terminal.\n\nThis one is %dx%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// RenderHeader shows the product name on the left, title in the middle
// and the signed-in user on the right. An empty user reads "not signed in".
func RenderHeader(title, user string, width int) string {
	inner := width - 4
	if inner < 3 {
		inner = 3
	}
	side := inner / 4
	middle := inner - 2*side

	who := lipgloss.NewStyle().Foreground(theme.TextDim).Render("not signed in")
	if user != "" {
		who = lipgloss.NewStyle().Foreground(theme.Secondary).Render("● " + user)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.PlaceHorizontal(side, lipgloss.Left, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(appName)),
		lipgloss.PlaceHorizontal(middle, lipgloss.Center, lipgloss.NewStyle().Foreground(theme.Text).Render(title)),
		lipgloss.PlaceHorizontal(side, lipgloss.Right, who),
	)
	return bar(width).Render(row)
}

// RenderFooter lists hints left to right. Hints that do not fit on one
// line are dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	room := width - 4
	var line strings.Builder
	for i, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		if i > 0 {
			part = "   " + part
		}
		if lipgloss.Width(line.String())+lipgloss.Width(part) > room {
			break
		}
		line.WriteString(part)
	}
	return bar(width).Render(line.String())
}

// RenderFrame stacks header, content and footer, sizing the content area
// to fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if body < 0 {
		body = 0
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}

// RenderStatus is a dim centred line such as "Loading courses...".
func RenderStatus(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("\n\n" + text)
}

// RenderError shows a screen-level load failure with the retry hint.
func RenderError(width int, msg string) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return center.Foreground(theme.Error).Render("\n\n"+msg+"\n\n") + "\n" +
		center.Foreground(theme.TextDim).Italic(true).Render("r to retry, Esc to go back")
}

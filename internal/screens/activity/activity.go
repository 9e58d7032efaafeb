// Package activity lists recent backend requests recorded in the local
// store.
package activity

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	"github.com/abhisek/smartmcq/internal/store"
	"github.com/abhisek/smartmcq/internal/ui/components"
	"github.com/abhisek/smartmcq/internal/ui/layout"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// pageSize is the number of requests loaded.
const pageSize = 50

type loadedMsg struct {
	stamp    nav.Stamp
	requests []store.APIRequestEvent
	usage    []store.EndpointUsage
	err      error
}

// ActivityScreen shows recent API requests and per-endpoint usage.
type ActivityScreen struct {
	events store.EventRepo
	scope  *nav.Scope

	requests  []store.APIRequestEvent
	usage     []store.EndpointUsage
	cursor    components.Cursor
	expanded  map[int]bool
	showStats bool

	loaded bool
	errMsg string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)
var _ screen.Disposer = (*ActivityScreen)(nil)

// New creates the activity screen.
func New(env *nav.Env) *ActivityScreen {
	return &ActivityScreen{
		events:   env.Events,
		scope:    nav.NewScope(),
		expanded: make(map[int]bool),
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ActivityScreen) load() tea.Cmd {
	ctx, stamp := s.scope.Begin()
	events := s.events
	s.loaded = false
	s.errMsg = ""
	return func() tea.Msg {
		reqs, err := events.QueryAPIRequests(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return loadedMsg{stamp: stamp, err: err}
		}
		usage, err := events.APIUsageByEndpoint(ctx)
		return loadedMsg{stamp: stamp, requests: reqs, usage: usage, err: err}
	}
}

func (s *ActivityScreen) Title() string {
	return "Activity"
}

func (s *ActivityScreen) Dispose() { s.scope.Dispose() }

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "s", Description: "Endpoints"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !s.scope.Current(msg.stamp) {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.errMsg = fmt.Sprintf("Failed to read activity: %v", msg.err)
			return s, nil
		}
		s.requests = msg.requests
		s.usage = msg.usage
		s.cursor.SetLen(len(s.requests))
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, nav.Emit(router.PopScreenMsg{})
		case "r":
			return s, s.load()
		case "s":
			s.showStats = !s.showStats
		case "up", "k":
			s.cursor.Move(-1)
		case "down", "j":
			s.cursor.Move(1)
		case "enter":
			s.expanded[s.cursor.Index] = !s.expanded[s.cursor.Index]
		}
	}
	return s, nil
}

func (s *ActivityScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.RenderError(width, s.errMsg)
	}
	if !s.loaded {
		return layout.RenderStatus(width, "Loading activity...")
	}
	if s.showStats {
		return s.viewUsage(width)
	}
	if len(s.requests) == 0 {
		return layout.RenderStatus(width, "No requests recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	start, end := s.cursor.Window(height - 2)
	for i := start; i < end; i++ {
		r := s.requests[i]
		status := fmt.Sprintf("%d", r.Status)
		if r.Status == 0 {
			status = "---"
		}
		line := fmt.Sprintf("%s  %-6s %-48s %s %6dms",
			r.Timestamp.Local().Format("15:04:05"), r.Method, r.Path, status, r.LatencyMs)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !r.Success {
			style = style.Foreground(theme.Error)
		}
		prefix := "  "
		if i == s.cursor.Index {
			prefix = "▸ "
			style = style.Bold(true)
		}
		b.WriteString(style.Render(prefix + line))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := "    request " + r.RequestID
			if r.ErrorMessage != "" {
				detail += "\n    " + r.ErrorMessage
			}
			b.WriteString(theme.Hint.Render(detail))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *ActivityScreen) viewUsage(width int) string {
	if len(s.usage) == 0 {
		return layout.RenderStatus(width, "No requests recorded yet.")
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Selected.Render(fmt.Sprintf("  %-6s %-48s %6s %8s %10s", "METHOD", "PATH", "CALLS", "FAILED", "AVG")))
	b.WriteString("\n")
	for _, u := range s.usage {
		b.WriteString(theme.Body.Render(fmt.Sprintf("  %-6s %-48s %6d %8d %8.0fms",
			u.Method, u.Path, u.Calls, u.Failures, u.AvgLatencyMs)))
		b.WriteString("\n")
	}
	return b.String()
}

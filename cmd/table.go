package cmd

import (
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

const timeLayout = "2006-01-02 15:04:05"

// newTable returns a borderless table with a rule under the header, the
// layout every listing command prints.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderColumn(false).BorderHeader(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers(headers...)
}

func writeTable(w io.Writer, t *table.Table) {
	fmt.Fprintln(w, t.Render())
}

func okMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func stamp(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// sinceFlag turns a --since duration into a lower timestamp bound.
func sinceFlag(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-d)
}

package render

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/ui/theme"
)

// DefaultPreviewLength is the preview cap used when Options leaves it unset.
const DefaultPreviewLength = 120

// Options controls what Question renders beyond the preview line.
type Options struct {
	// PreviewLength caps the de-tagged body. Zero means DefaultPreviewLength.
	PreviewLength int

	ShowAnswers bool
	ShowBadges  bool

	// Action renders a trailing slot on the preview line, e.g. "[Add]".
	Action func(q model.Question) string
}

// AnswerLine is the plain-text model of one rendered answer.
type AnswerLine struct {
	Label string
	Text  string
	// Key is true when the answer is correct and the answer key is shown.
	Key bool
}

// AnswerLines builds the answer list for q under cfg.
func AnswerLines(q model.Question, cfg model.Configuration) []AnswerLine {
	lines := make([]AnswerLine, len(q.Answers))
	for i, a := range q.Answers {
		lines[i] = AnswerLine{
			Label: AnswerLabel(i, cfg),
			Text:  StripTags(a.Text),
			Key:   cfg.IncludeAnswerKey && a.Correct,
		}
	}
	return lines
}

// DifficultyBadge renders the tri-colour difficulty badge, or "" when the
// question has no difficulty.
func DifficultyBadge(d model.Difficulty) string {
	var c = theme.TextDim
	switch d {
	case model.DifficultyEasy:
		c = theme.Success
	case model.DifficultyMedium:
		c = theme.Accent
	case model.DifficultyHard:
		c = theme.Error
	case "":
		return ""
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + d.Label() + "]")
}

// TaxonomyBadge renders the Bloom level badge. Unset levels render as N/A.
func TaxonomyBadge(l model.TaxonomyLevel) string {
	c := theme.Secondary
	if l == "" {
		c = theme.TextDim
	}
	return lipgloss.NewStyle().Foreground(c).Render("[" + l.Label() + "]")
}

// Question renders q as a preview line optionally followed by badges, the
// action slot and the answer list.
func Question(q model.Question, cfg model.Configuration, opts Options) string {
	max := opts.PreviewLength
	if max == 0 {
		max = DefaultPreviewLength
	}

	head := []string{theme.Body.Render(Preview(q.Text, max))}
	if opts.ShowBadges {
		if b := DifficultyBadge(q.Difficulty); b != "" {
			head = append(head, b)
		}
		head = append(head, TaxonomyBadge(q.Taxonomy))
	}
	if opts.Action != nil {
		if a := opts.Action(q); a != "" {
			head = append(head, theme.Hint.Render(a))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(head, " "))

	if opts.ShowAnswers {
		for _, line := range AnswerLines(q, cfg) {
			b.WriteString("\n")
			text := "  " + line.Label + " " + line.Text
			if line.Key {
				b.WriteString(theme.Correct.Render(text + " ✓"))
			} else {
				b.WriteString(theme.Body.Render(text))
			}
		}
	}
	return b.String()
}

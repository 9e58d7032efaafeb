// Package similarity is the view-model of the similarity-review dialog shown
// before a new test that overlaps existing tests is created.
package similarity

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
)

// Severity buckets a similarity score for colour coding.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// SeverityOf maps a similarity in [0,1] to its bucket: below 0.5 is low,
// below 0.7 medium, the rest high.
func SeverityOf(similarity float64) Severity {
	switch {
	case similarity >= 0.7:
		return SeverityHigh
	case similarity >= 0.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Banner is the dialog headline for n similar tests.
func Banner(n int) string {
	noun := "tests"
	if n == 1 {
		noun = "test"
	}
	return fmt.Sprintf("This test is similar to %d existing %s", n, noun)
}

// Percent formats a similarity ratio as a whole percentage.
func Percent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
}

// MatchedLabel describes how many questions of t match the candidate set.
func MatchedLabel(t model.SimilarTest) string {
	return fmt.Sprintf("%d of %d questions match", t.MatchedCount, t.TotalQuestions)
}

// DeepLink is the web console URL for editing a question.
func DeepLink(webURL, courseID, chapterID, questionID string) string {
	base := strings.TrimRight(webURL, "/")
	p, err := url.JoinPath(base, "courses", courseID, "question-banks", chapterID, "questions", questionID, "edit")
	if err != nil {
		return base + "/courses/" + courseID + "/question-banks/" + chapterID + "/questions/" + questionID + "/edit"
	}
	return p
}

// PairView is a question pair prepared for display.
type PairView struct {
	Candidate  string
	Existing   string
	Similarity string
	Link       string
}

// Dialog is the dialog state. It never mutates tests or questions.
type Dialog struct {
	Report   model.SimilarityReport
	CourseID string
	WebURL   string

	Cursor   int
	Expanded map[string]bool
}

// NewDialog returns a collapsed dialog over report.
func NewDialog(report model.SimilarityReport, courseID, webURL string) *Dialog {
	return &Dialog{
		Report:   report,
		CourseID: courseID,
		WebURL:   webURL,
		Expanded: make(map[string]bool),
	}
}

// Banner is the headline for the report.
func (d *Dialog) Banner() string {
	n := d.Report.TotalSimilarTests
	if n == 0 {
		n = len(d.Report.SimilarTests)
	}
	return Banner(n)
}

// MoveCursor moves the selected test by delta, clamped to the list.
func (d *Dialog) MoveCursor(delta int) {
	d.Cursor += delta
	if d.Cursor >= len(d.Report.SimilarTests) {
		d.Cursor = len(d.Report.SimilarTests) - 1
	}
	if d.Cursor < 0 {
		d.Cursor = 0
	}
}

// ToggleSelected expands or collapses the test under the cursor.
func (d *Dialog) ToggleSelected() {
	if d.Cursor < len(d.Report.SimilarTests) {
		id := d.Report.SimilarTests[d.Cursor].TestID
		d.Expanded[id] = !d.Expanded[id]
	}
}

// IsExpanded reports whether testID shows its question pairs.
func (d *Dialog) IsExpanded(testID string) bool {
	return d.Expanded[testID]
}

// Pairs returns the question pairs of t ready for display, with text
// de-tagged and truncated to width runes.
func (d *Dialog) Pairs(t model.SimilarTest, width int) []PairView {
	out := make([]PairView, 0, len(t.QuestionPairs))
	for _, p := range t.QuestionPairs {
		pv := PairView{
			Candidate:  render.Preview(p.Candidate.Text, width),
			Existing:   render.Preview(p.Existing.Text, width),
			Similarity: Percent(p.Similarity),
		}
		if d.WebURL != "" && p.Existing.BankID != "" {
			pv.Link = DeepLink(d.WebURL, d.CourseID, p.Existing.BankID, p.Existing.ID)
		}
		out = append(out, pv)
	}
	return out
}

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/model"
)

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		sim  float64
		want Severity
	}{
		{0, SeverityLow},
		{0.49, SeverityLow},
		{0.5, SeverityMedium},
		{0.69, SeverityMedium},
		{0.7, SeverityHigh},
		{1, SeverityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityOf(tt.sim), "similarity %v", tt.sim)
	}
}

func TestBanner(t *testing.T) {
	assert.Equal(t, "This test is similar to 1 existing test", Banner(1))
	assert.Equal(t, "This test is similar to 3 existing tests", Banner(3))
}

func TestPercentAndMatched(t *testing.T) {
	assert.Equal(t, "73%", Percent(0.734))
	assert.Equal(t, "3 of 10 questions match",
		MatchedLabel(model.SimilarTest{MatchedCount: 3, TotalQuestions: 10}))
}

func TestDeepLink(t *testing.T) {
	assert.Equal(t,
		"https://mcq.example.edu/courses/c1/question-banks/ch2/questions/q3/edit",
		DeepLink("https://mcq.example.edu/", "c1", "ch2", "q3"))
}

func report() model.SimilarityReport {
	return model.SimilarityReport{
		TotalSimilarTests: 2,
		SimilarTests: []model.SimilarTest{
			{
				TestID: "t1", Title: "Quiz 1", Similarity: 0.8,
				QuestionPairs: []model.QuestionPair{{
					Candidate:  model.QuestionStub{ID: "q1", Text: "<p>What is a <em>cell</em>?</p>"},
					Existing:   model.QuestionStub{ID: "q9", Text: "<p>Define a cell</p>", BankID: "ch1"},
					Similarity: 0.91,
				}},
			},
			{TestID: "t2", Title: "Quiz 2", Similarity: 0.55},
		},
	}
}

func TestDialogExpandToggle(t *testing.T) {
	d := NewDialog(report(), "c1", "https://web")
	assert.Equal(t, "This test is similar to 2 existing tests", d.Banner())

	d.ToggleSelected()
	assert.True(t, d.IsExpanded("t1"))
	d.ToggleSelected()
	assert.False(t, d.IsExpanded("t1"))

	d.MoveCursor(5)
	assert.Equal(t, 1, d.Cursor)
	d.ToggleSelected()
	assert.True(t, d.IsExpanded("t2"))
	d.MoveCursor(-9)
	assert.Equal(t, 0, d.Cursor)
}

func TestDialogPairs(t *testing.T) {
	r := report()
	d := NewDialog(r, "c1", "https://web")
	pairs := d.Pairs(r.SimilarTests[0], 80)
	require.Len(t, pairs, 1)
	assert.Equal(t, "What is a cell ?", pairs[0].Candidate)
	assert.Equal(t, "Define a cell", pairs[0].Existing)
	assert.Equal(t, "91%", pairs[0].Similarity)
	assert.Equal(t, "https://web/courses/c1/question-banks/ch1/questions/q9/edit", pairs[0].Link)
}

func TestDialogDoesNotMutateReport(t *testing.T) {
	r := report()
	d := NewDialog(r, "c1", "")
	d.ToggleSelected()
	d.MoveCursor(1)
	_ = d.Pairs(r.SimilarTests[0], 10)
	assert.Equal(t, report(), d.Report)
}

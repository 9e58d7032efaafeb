package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

func TestReportFromTestMembers(t *testing.T) {
	s := New(st.Env(st.Seeded()), st.Bio, "bio-mid", "")
	st.Feed(s, s.Init())

	r := s.Report()
	assert.Equal(t, 2, r.QuestionCount)
	assert.Equal(t, 2, r.WithDifficulty)
	assert.Equal(t, 1, r.Insights.Poor)
	assert.Equal(t, 1, r.Insights.TooEasy)

	view := st.Strip(s.View(120, 200))
	assert.Contains(t, view, "Midterm")
	assert.Contains(t, view, "Mean p-value         0.9")
	assert.Contains(t, view, "Very Easy (0-2)")
	assert.Contains(t, view, "Q1")
}

func TestEmptyMeanRendersDash(t *testing.T) {
	b := st.Seeded()
	mid := b.TestsByID["bio-mid"]
	for i := range mid.Questions {
		mid.Questions[i].Question.Statistics = nil
	}
	b.TestsByID["bio-mid"] = mid

	s := New(st.Env(b), st.Bio, "bio-mid", "Midterm")
	st.Feed(s, s.Init())
	assert.Contains(t, st.Strip(s.View(120, 200)), "Mean difficulty      —")
	assert.NotContains(t, st.Strip(s.View(120, 200)), "Success Rate")
}

func TestLoadError(t *testing.T) {
	b := st.Seeded()
	b.ErrTest = st.ErrBoom
	s := New(st.Env(b), st.Bio, "bio-mid", "Midterm")
	st.Feed(s, s.Init())

	view := st.Strip(s.View(120, 40))
	assert.Contains(t, view, "Failed to load data. Please try again.")
	assert.NotContains(t, view, "Summary")
}

func TestExpiredSession(t *testing.T) {
	b := st.Seeded()
	b.ErrTest = st.Unauthorized()
	s := New(st.Env(b), st.Bio, "bio-mid", "Midterm")
	_, escaped := st.Feed(s, s.Init())
	require.Len(t, escaped, 1)
}

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

type continueMsg struct{}

func report() model.SimilarityReport {
	return model.SimilarityReport{
		CandidateQuestionCount: 3,
		TotalSimilarTests:      2,
		Threshold:              0.3,
		SimilarTests: []model.SimilarTest{
			{
				TestID: "t1", Title: "Midterm", Similarity: 0.82, MatchedCount: 2, TotalQuestions: 4,
				QuestionPairs: []model.QuestionPair{{
					Candidate:  model.QuestionStub{ID: "q1", Text: "<p>What is <i>ATP</i>?</p>"},
					Existing:   model.QuestionStub{ID: "q9", Text: "Define ATP", BankID: "cells"},
					Similarity: 0.9,
				}},
			},
			{TestID: "t2", Title: "Quiz", Similarity: 0.4, MatchedCount: 1, TotalQuestions: 5},
		},
	}
}

func newDialog() *DialogScreen {
	env := st.Env(st.NewBackend())
	env.Config.API.WebURL = "https://mcq.example.edu"
	return New(env, st.Bio, report(), continueMsg{})
}

func TestViewShowsBannerAndScores(t *testing.T) {
	view := st.Strip(newDialog().View(120, 30))
	assert.Contains(t, view, "This test is similar to 2 existing tests")
	assert.Contains(t, view, "82%")
	assert.Contains(t, view, "2 of 4 questions match")
	assert.Contains(t, view, "Proceed anyway")
	assert.NotContains(t, view, "Define ATP")
}

func TestExpandShowsPairsAndLink(t *testing.T) {
	s := newDialog()
	st.Press(s, "space")
	view := st.Strip(s.View(140, 40))
	assert.Contains(t, view, "What is ATP?")
	assert.Contains(t, view, "Define ATP")
	assert.Contains(t, view, "https://mcq.example.edu/courses/bio/question-banks/cells/questions/q9/edit")

	st.Press(s, "down", "space")
	assert.True(t, s.dialog.IsExpanded("t2"))
	assert.Contains(t, st.Strip(s.View(140, 40)), "No question pairs reported")
}

func TestExits(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		notify any
	}{
		{"default button reviews", []string{"enter"}, nil},
		{"esc reviews", []string{"esc"}, nil},
		{"proceed shortcut", []string{"p"}, continueMsg{}},
		{"move to proceed", []string{"left", "enter"}, continueMsg{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := st.Press(newDialog(), tt.keys...)
			msgs := st.Drain(cmd)
			require.Len(t, msgs, 1)
			pop, ok := msgs[0].(router.PopScreenMsg)
			require.True(t, ok)
			if tt.notify == nil {
				assert.Nil(t, pop.Notify)
			} else {
				assert.Equal(t, tt.notify, pop.Notify)
			}
		})
	}
}

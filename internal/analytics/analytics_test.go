package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/model"
)

func scored(id string, diff, disc, p *float64) model.Question {
	q := model.Question{ID: id, Text: "<p>Question " + id + "</p>"}
	if diff != nil || disc != nil || p != nil {
		q.Statistics = &model.Statistics{ScaledDifficulty: diff, ScaledDiscrimination: disc}
		if p != nil {
			q.Statistics.ClassicalParameters = &model.ClassicalParameters{PValue: p}
		}
	}
	return q
}

var f = model.Float

func binCount(bins []Bin, label string) int {
	for _, b := range bins {
		if b.Label == label {
			return b.Count
		}
	}
	return -1
}

func sumBins(bins []Bin) int {
	n := 0
	for _, b := range bins {
		n += b.Count
	}
	return n
}

func TestCompute_ModerateBinIsHalfOpen(t *testing.T) {
	r := Compute([]model.Question{scored("q1", f(5.5), nil, nil)})
	assert.Equal(t, 1, binCount(r.Difficulty, "Moderate (4-6)"))
	assert.Equal(t, 0, binCount(r.Difficulty, "Hard (6-8)"))
}

func TestCompute_BinEdges(t *testing.T) {
	r := Compute([]model.Question{
		scored("a", f(0), f(0), nil),
		scored("b", f(2), f(2), nil),
		scored("c", f(6), f(6), nil),
		scored("d", f(8), f(9.5), nil),
		scored("e", f(10), f(10), nil),
	})
	assert.Equal(t, 1, binCount(r.Difficulty, "Very Easy (0-2)"))
	assert.Equal(t, 1, binCount(r.Difficulty, "Easy (2-4)"))
	assert.Equal(t, 1, binCount(r.Difficulty, "Hard (6-8)"))
	assert.Equal(t, 2, binCount(r.Difficulty, "Very Hard (8-10)"))

	assert.Equal(t, 1, binCount(r.Discrimination, "Poor (0-2)"))
	assert.Equal(t, 1, binCount(r.Discrimination, "Fair (2-4)"))
	assert.Equal(t, 3, binCount(r.Discrimination, "Excellent (6+)"))
}

func TestCompute_HistogramsCountOnlyPossessingQuestions(t *testing.T) {
	qs := []model.Question{
		scored("a", f(1), nil, nil),
		scored("b", nil, f(3), f(0.5)),
		scored("c", f(7), f(7), nil),
		scored("d", nil, nil, nil),
		{ID: "e"},
	}
	r := Compute(qs)

	assert.Equal(t, 5, r.QuestionCount)
	assert.Equal(t, 2, r.WithDifficulty)
	assert.Equal(t, 2, r.WithDiscrimination)
	assert.Equal(t, r.WithDifficulty, sumBins(r.Difficulty))
	assert.Equal(t, r.WithDiscrimination, sumBins(r.Discrimination))
}

func TestCompute_MeansDivideByPossessingCount(t *testing.T) {
	r := Compute([]model.Question{
		scored("a", f(2), nil, nil),
		scored("b", f(6), nil, nil),
		scored("c", nil, nil, nil),
	})
	require.True(t, r.MeanDifficulty.OK)
	assert.InDelta(t, 4.0, r.MeanDifficulty.Value, 1e-9)
	assert.False(t, r.MeanDiscrimination.OK)
	assert.Equal(t, "—", r.MeanDiscrimination.String())
	assert.Equal(t, "4.0", r.MeanDifficulty.String())
}

func TestCompute_EmptyInput(t *testing.T) {
	r := Compute(nil)
	assert.Equal(t, 0, r.QuestionCount)
	assert.False(t, r.MeanDifficulty.OK)
	assert.False(t, r.MeanPValue.OK)
	assert.Empty(t, r.Scatter)
	assert.Empty(t, r.SuccessRates)
	assert.Equal(t, 0, r.CrossTab.Total)
	assert.Len(t, r.CrossTab.Rows, 6)
}

func TestCompute_SuccessRateKeepsOriginalPositions(t *testing.T) {
	r := Compute([]model.Question{
		scored("a", nil, nil, f(0.9)),
		scored("b", nil, nil, nil),
		scored("c", nil, nil, f(0.25)),
	})
	require.Len(t, r.SuccessRates, 2)
	assert.Equal(t, "Q1", r.SuccessRates[0].Label)
	assert.InDelta(t, 90.0, r.SuccessRates[0].Percent, 1e-9)
	assert.Equal(t, "Q3", r.SuccessRates[1].Label)
	assert.Equal(t, 3, r.SuccessRates[1].Position)
	assert.InDelta(t, 25.0, r.SuccessRates[1].Percent, 1e-9)
}

func TestCompute_ScatterNeedsBothMetrics(t *testing.T) {
	long := model.Question{
		ID:   "long",
		Text: "<p>This question text is definitely longer than thirty characters</p>",
		Statistics: &model.Statistics{
			ScaledDifficulty:     f(5),
			ScaledDiscrimination: f(6),
		},
	}
	r := Compute([]model.Question{long, scored("x", f(3), nil, nil)})

	require.Len(t, r.Scatter, 1)
	pt := r.Scatter[0]
	assert.Equal(t, "long", pt.QuestionID)
	assert.Equal(t, "This question text is definite...", pt.Text)
}

func TestCompute_Insights(t *testing.T) {
	r := Compute([]model.Question{
		scored("optimal", f(4), f(5.1), nil),
		scored("optimal-edge", f(6), f(9), nil),
		scored("not-optimal", f(5), f(5), nil),
		scored("poor", f(5), f(1.9), nil),
		scored("too-hard", f(8.5), nil, nil),
		scored("too-easy", f(1), nil, nil),
		scored("disc-only", nil, f(1), nil),
	})
	assert.Equal(t, 2, r.Insights.Optimal)
	assert.Equal(t, 2, r.Insights.Poor)
	assert.Equal(t, 1, r.Insights.TooHard)
	assert.Equal(t, 1, r.Insights.TooEasy)
}

func TestCompute_CrossTab(t *testing.T) {
	qs := []model.Question{
		{ID: "1", Taxonomy: model.LevelApply, Difficulty: model.DifficultyEasy},
		{ID: "2", Taxonomy: model.LevelApply, Difficulty: model.DifficultyHard},
		{ID: "3", Taxonomy: model.TaxonomyLevel("Apply"), Difficulty: model.DifficultyHard},
		{ID: "4", Taxonomy: model.LevelCreate, Difficulty: model.DifficultyMedium},
		{ID: "5", Taxonomy: model.LevelCreate},
		{ID: "6", Difficulty: model.DifficultyEasy},
	}
	ct := Compute(qs).CrossTab

	var apply, create CrossTabRow
	for _, row := range ct.Rows {
		switch row.Level {
		case model.LevelApply:
			apply = row
		case model.LevelCreate:
			create = row
		}
	}
	assert.Equal(t, 1, apply.Counts[model.DifficultyEasy])
	assert.Equal(t, 2, apply.Counts[model.DifficultyHard])
	assert.Equal(t, 3, apply.Total)
	assert.Equal(t, 1, create.Total)

	assert.Equal(t, 1, ct.ColumnTotal[model.DifficultyEasy])
	assert.Equal(t, 1, ct.ColumnTotal[model.DifficultyMedium])
	assert.Equal(t, 2, ct.ColumnTotal[model.DifficultyHard])
	assert.Equal(t, 4, ct.Total)

	assert.Equal(t, model.LevelRemember, ct.Rows[0].Level)
	assert.Equal(t, model.LevelCreate, ct.Rows[5].Level)
}

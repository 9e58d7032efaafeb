// Package analytics aggregates psychometric statistics of a test's
// questions into histograms, insight counts and a taxonomy cross-tab.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
)

// ScatterTextLength caps the question text carried by scatter points.
const ScatterTextLength = 30

// Bin is one histogram bucket covering [Min, Max). The last bin of a
// histogram also includes its upper edge.
type Bin struct {
	Label string
	Min   float64
	Max   float64
	Count int
}

// Mean is an arithmetic mean that may be undefined.
type Mean struct {
	Value float64
	// OK is false when no question possessed the metric.
	OK bool
}

// String formats the mean with one decimal, or "—" when undefined.
func (m Mean) String() string {
	if !m.OK {
		return "—"
	}
	return fmt.Sprintf("%.1f", m.Value)
}

// Point is one scatter plot point.
type Point struct {
	QuestionID     string
	Difficulty     float64
	Discrimination float64
	Text           string
}

// SuccessRate is one entry of the success-rate series.
type SuccessRate struct {
	// Label is "Q" plus the 1-based position among all questions.
	Label    string
	Position int
	Percent  float64
}

// Insights counts questions by qualitative item quality.
type Insights struct {
	Optimal int
	Poor    int
	TooHard int
	TooEasy int
}

// CrossTab counts questions by Bloom level and difficulty tier.
type CrossTab struct {
	Rows        []CrossTabRow
	ColumnTotal map[model.Difficulty]int
	Total       int
}

// CrossTabRow is one Bloom level of the cross-tab.
type CrossTabRow struct {
	Level  model.TaxonomyLevel
	Counts map[model.Difficulty]int
	Total  int
}

// Report is the full analytics result for a question list.
type Report struct {
	QuestionCount int

	Difficulty     []Bin
	Discrimination []Bin
	Scatter        []Point
	SuccessRates   []SuccessRate

	MeanDifficulty     Mean
	MeanDiscrimination Mean
	MeanPValue         Mean

	// WithDifficulty and WithDiscrimination count questions possessing the
	// metric; histogram counts sum to these.
	WithDifficulty     int
	WithDiscrimination int

	Insights Insights
	CrossTab CrossTab
}

// DifficultyBins returns empty difficulty bins.
func DifficultyBins() []Bin {
	return []Bin{
		{Label: "Very Easy (0-2)", Min: 0, Max: 2},
		{Label: "Easy (2-4)", Min: 2, Max: 4},
		{Label: "Moderate (4-6)", Min: 4, Max: 6},
		{Label: "Hard (6-8)", Min: 6, Max: 8},
		{Label: "Very Hard (8-10)", Min: 8, Max: 10},
	}
}

// DiscriminationBins returns empty discrimination bins.
func DiscriminationBins() []Bin {
	return []Bin{
		{Label: "Poor (0-2)", Min: 0, Max: 2},
		{Label: "Fair (2-4)", Min: 2, Max: 4},
		{Label: "Good (4-6)", Min: 4, Max: 6},
		{Label: "Excellent (6+)", Min: 6, Max: math.Inf(1)},
	}
}

// Compute aggregates questions in a single pass.
func Compute(questions []model.Question) Report {
	r := Report{
		QuestionCount:  len(questions),
		Difficulty:     DifficultyBins(),
		Discrimination: DiscriminationBins(),
		CrossTab:       newCrossTab(),
	}

	var sumDiff, sumDisc, sumP float64
	var nP int

	for i, q := range questions {
		diff, hasDiff := q.ScaledDifficulty()
		disc, hasDisc := q.ScaledDiscrimination()
		p, hasP := q.PValue()

		if hasDiff {
			r.WithDifficulty++
			sumDiff += diff
			r.Difficulty[binIndex(r.Difficulty, diff)].Count++
			if diff > 8 {
				r.Insights.TooHard++
			}
			if diff < 2 {
				r.Insights.TooEasy++
			}
		}
		if hasDisc {
			r.WithDiscrimination++
			sumDisc += disc
			r.Discrimination[binIndex(r.Discrimination, disc)].Count++
			if disc < 2 {
				r.Insights.Poor++
			}
		}
		if hasDiff && hasDisc {
			if diff >= 4 && diff <= 6 && disc > 5 {
				r.Insights.Optimal++
			}
			r.Scatter = append(r.Scatter, Point{
				QuestionID:     q.ID,
				Difficulty:     diff,
				Discrimination: disc,
				Text:           render.Preview(q.Text, ScatterTextLength),
			})
		}
		if hasP {
			nP++
			sumP += p
			r.SuccessRates = append(r.SuccessRates, SuccessRate{
				Label:    fmt.Sprintf("Q%d", i+1),
				Position: i + 1,
				Percent:  p * 100,
			})
		}

		r.CrossTab.add(q)
	}

	r.MeanDifficulty = mean(sumDiff, r.WithDifficulty)
	r.MeanDiscrimination = mean(sumDisc, r.WithDiscrimination)
	r.MeanPValue = mean(sumP, nP)
	return r
}

func mean(sum float64, n int) Mean {
	if n == 0 {
		return Mean{}
	}
	return Mean{Value: sum / float64(n), OK: true}
}

// binIndex finds the bin for v. Values below the first bin land in it and
// values at or above the last bin's lower edge land in the last bin, so
// every possessing question is counted exactly once.
func binIndex(bins []Bin, v float64) int {
	for i, b := range bins {
		if v < b.Max {
			return i
		}
	}
	return len(bins) - 1
}

func newCrossTab() CrossTab {
	ct := CrossTab{ColumnTotal: make(map[model.Difficulty]int)}
	for _, lv := range model.AllLevels() {
		ct.Rows = append(ct.Rows, CrossTabRow{
			Level:  lv,
			Counts: make(map[model.Difficulty]int),
		})
	}
	return ct
}

func (ct *CrossTab) add(q model.Question) {
	tier := q.Difficulty
	if tier != model.DifficultyEasy && tier != model.DifficultyMedium && tier != model.DifficultyHard {
		return
	}
	level := model.TaxonomyLevel(strings.ToLower(string(q.Taxonomy)))
	for i := range ct.Rows {
		if ct.Rows[i].Level == level {
			ct.Rows[i].Counts[tier]++
			ct.Rows[i].Total++
			ct.ColumnTotal[tier]++
			ct.Total++
			return
		}
	}
}

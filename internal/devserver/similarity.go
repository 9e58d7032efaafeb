package devserver

import (
	"slices"
	"strings"
	"unicode"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
)

const (
	// DefaultReportThreshold is the test-level similarity a match must reach
	// to be reported.
	DefaultReportThreshold = 0.3

	// pairThreshold is the question-level score above which two questions
	// count as the same item.
	pairThreshold = 0.6
)

// CheckSimilarity compares the candidate questions with every existing test.
// excludeID skips the test being edited.
func CheckSimilarity(candidates []model.Question, existing []model.Test, threshold float64, excludeID string) model.SimilarityReport {
	report := model.SimilarityReport{
		CandidateQuestionCount: len(candidates),
		Threshold:              threshold,
		SimilarTests:           []model.SimilarTest{},
	}
	if len(candidates) == 0 {
		return report
	}

	candTokens := make([]map[string]bool, len(candidates))
	for i, q := range candidates {
		candTokens[i] = tokens(q.Text)
	}

	for _, t := range existing {
		if t.ID == excludeID || len(t.Questions) == 0 {
			continue
		}
		members := t.MemberQuestions()
		memberTokens := make([]map[string]bool, len(members))
		for i, q := range members {
			memberTokens[i] = tokens(q.Text)
		}

		var pairs []model.QuestionPair
		matchedExisting := make(map[string]bool)
		for i, c := range candidates {
			best, bestScore := -1, 0.0
			for j, m := range members {
				score := 1.0
				if c.ID != m.ID {
					score = jaccard(candTokens[i], memberTokens[j])
				}
				if score > bestScore {
					best, bestScore = j, score
				}
			}
			if best < 0 || bestScore < pairThreshold {
				continue
			}
			pairs = append(pairs, model.QuestionPair{
				Candidate:  stub(c),
				Existing:   stub(members[best]),
				Similarity: round(bestScore),
			})
			matchedExisting[members[best].ID] = true
		}
		if len(pairs) == 0 {
			continue
		}

		sim := 2 * float64(len(pairs)) / float64(len(candidates)+len(members))
		if sim < threshold {
			continue
		}
		slices.SortStableFunc(pairs, func(a, b model.QuestionPair) int {
			switch {
			case a.Similarity > b.Similarity:
				return -1
			case a.Similarity < b.Similarity:
				return 1
			}
			return 0
		})
		report.SimilarTests = append(report.SimilarTests, model.SimilarTest{
			TestID:         t.ID,
			Title:          t.Title,
			Similarity:     round(sim),
			MatchedCount:   len(matchedExisting),
			TotalQuestions: len(members),
			Coverage:       round(float64(len(matchedExisting)) / float64(len(members))),
			QuestionPairs:  pairs,
		})
	}

	slices.SortStableFunc(report.SimilarTests, func(a, b model.SimilarTest) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	report.TotalSimilarTests = len(report.SimilarTests)
	return report
}

func stub(q model.Question) model.QuestionStub {
	return model.QuestionStub{ID: q.ID, Text: render.StripTags(q.Text), BankID: q.BankID}
}

func tokens(text string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(render.StripTags(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func round(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BloomTaxonomyName is the taxonomy name the backend uses for Bloom levels
// in a question's association list.
const BloomTaxonomyName = "Bloom's Taxonomy"

// TaxonomyLevel is a Bloom's taxonomy cognitive level. The zero value means
// the question has no level.
type TaxonomyLevel string

const (
	LevelRemember   TaxonomyLevel = "remember"
	LevelUnderstand TaxonomyLevel = "understand"
	LevelApply      TaxonomyLevel = "apply"
	LevelAnalyze    TaxonomyLevel = "analyze"
	LevelEvaluate   TaxonomyLevel = "evaluate"
	LevelCreate     TaxonomyLevel = "create"
)

// AllLevels returns the six Bloom levels in ascending cognitive order.
func AllLevels() []TaxonomyLevel {
	return []TaxonomyLevel{
		LevelRemember,
		LevelUnderstand,
		LevelApply,
		LevelAnalyze,
		LevelEvaluate,
		LevelCreate,
	}
}

// ParseLevel normalizes s to a TaxonomyLevel. Matching ignores case and
// surrounding whitespace. Unknown values are kept lower-cased so they still
// display, but Known reports false for them.
func ParseLevel(s string) TaxonomyLevel {
	return TaxonomyLevel(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether l is one of the six Bloom levels.
func (l TaxonomyLevel) Known() bool {
	for _, lv := range AllLevels() {
		if l == lv {
			return true
		}
	}
	return false
}

// Label returns the display label, or "N/A" when no level is set.
func (l TaxonomyLevel) Label() string {
	if l == "" {
		return "N/A"
	}
	return capitalize(string(l))
}

// Difficulty is the author-assigned difficulty tier of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns the tiers from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty normalizes s to a Difficulty.
func ParseDifficulty(s string) Difficulty {
	return Difficulty(strings.ToLower(strings.TrimSpace(s)))
}

// Label returns the display label, or "N/A" when unset.
func (d Difficulty) Label() string {
	if d == "" {
		return "N/A"
	}
	return capitalize(string(d))
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

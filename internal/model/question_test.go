package model

import (
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionDecode_TaxonomyResolution(t *testing.T) {
	tests := []struct {
		name string
		body string
		want TaxonomyLevel
	}{
		{
			name: "bloom association wins over direct field",
			body: `{"id":"q1","text":"x","answers":[],"taxonomyLevel":"remember",
				"taxonomies":[{"taxonomy":{"name":"Other"},"level":"create"},
				{"taxonomy":{"name":"Bloom's Taxonomy"},"level":"Analyze"}]}`,
			want: LevelAnalyze,
		},
		{
			name: "direct field when no bloom association",
			body: `{"id":"q1","text":"x","answers":[],"taxonomyLevel":"Apply",
				"taxonomies":[{"taxonomy":{"name":"SOLO"},"level":"relational"}]}`,
			want: LevelApply,
		},
		{
			name: "neither present",
			body: `{"id":"q1","text":"x","answers":[]}`,
			want: "",
		},
		{
			name: "bloom association with empty level falls back",
			body: `{"id":"q1","text":"x","answers":[],"taxonomyLevel":"evaluate",
				"taxonomies":[{"taxonomy":{"name":"Bloom's Taxonomy"},"level":""}]}`,
			want: LevelEvaluate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Question
			require.NoError(t, json.Unmarshal([]byte(tt.body), &q))
			assert.Equal(t, tt.want, q.Taxonomy)
		})
	}
}

func TestQuestionEncode_WritesBothTaxonomyShapes(t *testing.T) {
	q := Question{ID: "q1", Text: "<p>Hi</p>", Taxonomy: LevelCreate, Difficulty: DifficultyHard}

	b, err := json.Marshal(q)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "create", raw["taxonomyLevel"])

	assocs, ok := raw["taxonomies"].([]any)
	require.True(t, ok)
	require.Len(t, assocs, 1)
	assoc := assocs[0].(map[string]any)
	assert.Equal(t, "create", assoc["level"])
	assert.Equal(t, BloomTaxonomyName, assoc["taxonomy"].(map[string]any)["name"])
	assert.Equal(t, []any{}, raw["answers"])
}

func TestQuestionEncode_NoTaxonomyOmitsBothShapes(t *testing.T) {
	b, err := json.Marshal(Question{ID: "q1"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.NotContains(t, raw, "taxonomyLevel")
	assert.NotContains(t, raw, "taxonomies")
}

func TestQuestionMetrics(t *testing.T) {
	q := Question{Statistics: &Statistics{
		ScaledDifficulty:    Float(5.5),
		ClassicalParameters: &ClassicalParameters{PValue: Float(0.42)},
	}}

	d, ok := q.ScaledDifficulty()
	assert.True(t, ok)
	assert.Equal(t, 5.5, d)

	_, ok = q.ScaledDiscrimination()
	assert.False(t, ok)

	p, ok := q.PValue()
	assert.True(t, ok)
	assert.Equal(t, 0.42, p)

	_, ok = Question{}.PValue()
	assert.False(t, ok)
}

func TestQuestionClone_DoesNotAlias(t *testing.T) {
	q := Question{
		ID:         "q1",
		Answers:    []Answer{{ID: "a", Text: "one"}},
		Statistics: &Statistics{ScaledDifficulty: Float(3)},
	}
	c := q.Clone()
	c.Answers[0].Text = "changed"
	*c.Statistics.ScaledDifficulty = 9

	assert.Equal(t, "one", q.Answers[0].Text)
	d, _ := q.ScaledDifficulty()
	assert.Equal(t, 3.0, d)
}

func TestTaxonomyLevelLabel(t *testing.T) {
	assert.Equal(t, "N/A", TaxonomyLevel("").Label())
	assert.Equal(t, "Understand", LevelUnderstand.Label())
	assert.True(t, ParseLevel(" Remember ").Known())
	assert.False(t, ParseLevel("memorize").Known())
}

func TestLabelCapitalizesFirstRune(t *testing.T) {
	assert.Equal(t, "Élève", TaxonomyLevel("élève").Label())
	assert.True(t, utf8.ValidString(TaxonomyLevel("élève").Label()))
	assert.Equal(t, "Ärger", Difficulty("ärger").Label())
	assert.Equal(t, "Hard", DifficultyHard.Label())
}

func TestConfigurationNormalized(t *testing.T) {
	c := Configuration{}.Normalized()
	assert.Equal(t, Uppercase, c.LetterCase)
	assert.Equal(t, ".", c.Separator)

	c = Configuration{LetterCase: Lowercase, Separator: ")", IncludeAnswerKey: true}.Normalized()
	assert.Equal(t, Lowercase, c.LetterCase)
	assert.Equal(t, ")", c.Separator)
	assert.True(t, c.IncludeAnswerKey)
}

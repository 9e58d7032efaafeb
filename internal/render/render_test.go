package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/smartmcq/internal/model"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "What is 2+2?", "What is 2+2?"},
		{"paragraphs", "<p>First</p><p>Second</p>", "First Second"},
		{"entities", "<b>Tom &amp; Jerry</b> &lt;3", "Tom & Jerry <3"},
		{"self closing", "line<br/>break", "line break"},
		{"inline bold", "<p>Which organelle makes <b>ATP</b>?</p>", "Which organelle makes ATP?"},
		{"subscript", "Water is H<sub>2</sub>O", "Water is H2O"},
		{"inline runs", "<em>a</em><strong>b</strong><code>c</code>", "abc"},
		{"list items", "<ul><li>one</li><li>two</li></ul>", "one two"},
		{"table cells", "<table><tr><td>x</td><td>y</td></tr></table>", "x y"},
		{"heading then text", "<h2>Title</h2>Body", "Title Body"},
		{"script dropped", "<p>Hi</p><script>alert(1)</script>there", "Hi there"},
		{"whitespace collapsed", "  a \n\t b  ", "a b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}

func TestTruncate_EllipsisOnlyWhenTruncated(t *testing.T) {
	inputs := []string{"", "short", "exactly ten", "a much longer sentence than allowed", "ünïcödé text with accents"}
	for _, in := range inputs {
		for _, max := range []int{0, 5, 10, 11, 40} {
			got := Truncate(in, max)
			truncated := utf8.RuneCountInString(in) > max
			if truncated {
				assert.True(t, strings.HasSuffix(got, Ellipsis), "%q/%d", in, max)
				kept := strings.TrimSuffix(got, Ellipsis)
				assert.Equal(t, max, utf8.RuneCountInString(kept), "%q/%d", in, max)
			} else {
				assert.Equal(t, in, got, "%q/%d", in, max)
			}
		}
	}
}

func TestTruncate_KeepsExactlyMaxRunes(t *testing.T) {
	assert.Equal(t, "hello "+Ellipsis, Truncate("hello world", 6))
	assert.Equal(t, "ünï"+Ellipsis, Truncate("ünïcödé", 3))
}

func TestPreview_TruncatesDetaggedText(t *testing.T) {
	// Cutting the raw markup at 12 would land inside the tag.
	got := Preview(`<span class="very-long-class">Hello world</span>`, 12)
	assert.Equal(t, "Hello world", got)

	got = Preview(`<p>The <em>quick</em> brown fox</p>`, 9)
	assert.Equal(t, "The quick"+Ellipsis, got)
}

func TestAnswerLetters(t *testing.T) {
	for i := 0; i < 26; i++ {
		assert.Equal(t, string(rune(65+i)), AnswerLetters(i, model.Uppercase))
		assert.Equal(t, string(rune(97+i)), AnswerLetters(i, model.Lowercase))
	}
	assert.Equal(t, "AA", AnswerLetters(26, model.Uppercase))
	assert.Equal(t, "ab", AnswerLetters(27, model.Lowercase))
	assert.Equal(t, "AZ", AnswerLetters(51, model.Uppercase))
	assert.Equal(t, "BA", AnswerLetters(52, model.Uppercase))
	assert.Equal(t, "", AnswerLetters(-1, model.Uppercase))
}

func TestAnswerLabel_UsesSeparator(t *testing.T) {
	cfg := model.Configuration{LetterCase: model.Lowercase, Separator: ")"}
	assert.Equal(t, "a)", AnswerLabel(0, cfg))
	assert.Equal(t, "C.", AnswerLabel(2, model.Configuration{}))
}

func sampleQuestion() model.Question {
	return model.Question{
		ID:         "b1-q1",
		Text:       "<p>Which planet is <b>largest</b>?</p>",
		Difficulty: model.DifficultyEasy,
		Taxonomy:   model.LevelRemember,
		Answers: []model.Answer{
			{ID: "a1", Text: "Mars"},
			{ID: "a2", Text: "<i>Jupiter</i>", Correct: true},
		},
	}
}

func TestAnswerLines_KeyOnlyWhenEnabled(t *testing.T) {
	q := sampleQuestion()

	lines := AnswerLines(q, model.Configuration{Separator: "-"})
	assert.Equal(t, "A-", lines[0].Label)
	assert.Equal(t, "Jupiter", lines[1].Text)
	assert.False(t, lines[1].Key)

	lines = AnswerLines(q, model.Configuration{IncludeAnswerKey: true})
	assert.False(t, lines[0].Key)
	assert.True(t, lines[1].Key)
}

func TestQuestion_Composition(t *testing.T) {
	q := sampleQuestion()
	out := ansi.Strip(Question(q, model.Configuration{IncludeAnswerKey: true}, Options{
		ShowAnswers: true,
		ShowBadges:  true,
		Action:      func(model.Question) string { return "[Add]" },
	}))

	assert.Contains(t, out, "Which planet is largest?")
	assert.Contains(t, out, "[Easy]")
	assert.Contains(t, out, "[Remember]")
	assert.Contains(t, out, "[Add]")
	assert.Contains(t, out, "A. Mars")
	assert.Contains(t, out, "B. Jupiter ✓")
	assert.NotContains(t, out, "Mars ✓")
}

func TestQuestion_NoBadgesNoAnswers(t *testing.T) {
	out := ansi.Strip(Question(sampleQuestion(), model.Configuration{}, Options{PreviewLength: 5}))
	assert.Equal(t, "Which"+Ellipsis, out)
}

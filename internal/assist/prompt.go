package assist

import (
	"fmt"
	"strings"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
)

const systemPrompt = `You are an assessment specialist reviewing multiple-choice questions for a university course. Classify each question by the cognitive level of Bloom's revised taxonomy it targets and by how hard it is for a typical student.`

func buildUserMessage(q model.Question) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\nAnswers:\n", render.StripTags(q.Text))
	for i, a := range q.Answers {
		mark := ""
		if a.Correct {
			mark = " (correct)"
		}
		fmt.Fprintf(&b, "%s %s%s\n", render.AnswerLabel(i, model.DefaultConfiguration()), render.StripTags(a.Text), mark)
	}

	if q.Taxonomy != "" || q.Difficulty != "" {
		fmt.Fprintf(&b, "\nCurrent tags: level=%s, difficulty=%s\n", q.Taxonomy.Label(), q.Difficulty.Label())
	}

	b.WriteString(`
Instructions:
1. Pick the single Bloom level the question mainly exercises.
2. Rate difficulty as easy, medium or hard.
3. Write a short explanation of why the correct answer is correct. Plain text, no markup.`)

	return b.String()
}

package model

import "time"

// LetterCase selects upper- or lower-case answer labels.
type LetterCase string

const (
	Uppercase LetterCase = "uppercase"
	Lowercase LetterCase = "lowercase"
)

// Configuration is a rendering directive for a test. It never changes the
// stored question data.
type Configuration struct {
	LetterCase       LetterCase `json:"letterCase"`
	Separator        string     `json:"separator"`
	IncludeAnswerKey bool       `json:"includeAnswerKey"`
}

// DefaultConfiguration is used for new tests and for tests the backend
// returns without a configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		LetterCase: Uppercase,
		Separator:  ".",
	}
}

// Normalized fills unset fields with defaults.
func (c Configuration) Normalized() Configuration {
	if c.LetterCase != Lowercase {
		c.LetterCase = Uppercase
	}
	if c.Separator == "" {
		c.Separator = "."
	}
	return c
}

// QuestionRef pairs a question id with the snapshot used for display.
type QuestionRef struct {
	ID       string   `json:"id"`
	Question Question `json:"question"`
}

// Test is an assembled test.
type Test struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Configuration Configuration `json:"configuration"`
	Questions     []QuestionRef `json:"questions"`
}

// QuestionIDs returns the member ids in order.
func (t Test) QuestionIDs() []string {
	ids := make([]string, len(t.Questions))
	for i, ref := range t.Questions {
		ids[i] = ref.ID
	}
	return ids
}

// MemberQuestions returns the embedded snapshots in order.
func (t Test) MemberQuestions() []Question {
	qs := make([]Question, len(t.Questions))
	for i, ref := range t.Questions {
		qs[i] = ref.Question
	}
	return qs
}

// TestInput is the payload for creating or updating a test.
type TestInput struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Configuration Configuration `json:"configuration"`
	QuestionIDs   []string      `json:"question_ids"`
}

// TestSummary is a row of the test-bank listing.
type TestSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Course groups question banks and tests.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// QuestionBank is a named collection of questions scoped to a course
// chapter. Navigation calls its id the chapter id.
type QuestionBank struct {
	ID            string `json:"id"`
	CourseID      string `json:"course_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
}

// Package editor holds the view-model of the test editor: the test being
// assembled, the pool of available questions and the live filters over it.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
)

// ErrTitleRequired blocks saving a test without a title.
var ErrTitleRequired = errors.New("title is required")

// State is the editor view-model. It is plain data so it can be serialized
// and is owned by a single screen.
type State struct {
	CourseID string     `json:"course_id"`
	Test     model.Test `json:"test"`

	Banks []model.QuestionBank `json:"banks"`
	Pool  []model.Question     `json:"pool"`
	// PoolError is set when some banks failed to load. The rest of the
	// pool stays usable.
	PoolError string `json:"pool_error,omitempty"`

	Query      string                `json:"query"`
	Levels     []model.TaxonomyLevel `json:"levels"`
	BankFilter string                `json:"bank_filter"`
}

// New returns the state for creating a test in courseID.
func New(courseID string, cfg model.Configuration) *State {
	return &State{
		CourseID: courseID,
		Test:     model.Test{Configuration: cfg.Normalized()},
	}
}

// FromTest returns the state for editing an existing test.
func FromTest(courseID string, t model.Test) *State {
	t.Configuration = t.Configuration.Normalized()
	return &State{CourseID: courseID, Test: t}
}

// IsNew reports whether the test has not been saved yet.
func (s *State) IsNew() bool {
	return s.Test.ID == ""
}

// SetPool installs a loaded question pool.
func (s *State) SetPool(p Pool) {
	s.Banks = p.Banks
	s.Pool = p.Questions
	s.PoolError = ""
	if p.Err != nil {
		s.PoolError = p.Err.Error()
	}
}

// SetQuery sets the free-text filter.
func (s *State) SetQuery(q string) {
	s.Query = q
}

// ToggleLevel adds or removes a level from the level filter.
func (s *State) ToggleLevel(l model.TaxonomyLevel) {
	if i := slices.Index(s.Levels, l); i >= 0 {
		s.Levels = slices.Delete(s.Levels, i, i+1)
		return
	}
	s.Levels = append(s.Levels, l)
}

// SetBankFilter restricts the pool to questions whose id starts with
// bankID. Empty clears the filter.
func (s *State) SetBankFilter(bankID string) {
	s.BankFilter = bankID
}

// Filtered returns the pool questions passing every active filter, in pool
// order.
func (s *State) Filtered() []model.Question {
	query := strings.ToLower(strings.TrimSpace(s.Query))
	out := make([]model.Question, 0, len(s.Pool))
	for _, q := range s.Pool {
		if query != "" && !strings.Contains(strings.ToLower(render.StripTags(q.Text)), query) {
			continue
		}
		if len(s.Levels) > 0 && !slices.Contains(s.Levels, model.ParseLevel(string(q.Taxonomy))) {
			continue
		}
		if s.BankFilter != "" && !strings.HasPrefix(q.ID, s.BankFilter) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// IsSelected reports whether questionID is a member of the test.
func (s *State) IsSelected(questionID string) bool {
	return s.indexOf(questionID) >= 0
}

func (s *State) indexOf(questionID string) int {
	return slices.IndexFunc(s.Test.Questions, func(ref model.QuestionRef) bool {
		return ref.ID == questionID
	})
}

// ToggleQuestionSelection removes q from the test if it is a member and
// appends it otherwise. It is the only way membership changes.
func (s *State) ToggleQuestionSelection(q model.Question) {
	if i := s.indexOf(q.ID); i >= 0 {
		s.Test.Questions = slices.Delete(s.Test.Questions, i, i+1)
		return
	}
	s.Test.Questions = append(s.Test.Questions, model.QuestionRef{ID: q.ID, Question: q.Clone()})
}

// ReplaceQuestion refreshes every copy of q after it was edited.
func (s *State) ReplaceQuestion(q model.Question) {
	for i := range s.Pool {
		if s.Pool[i].ID == q.ID {
			s.Pool[i] = q.Clone()
		}
	}
	if i := s.indexOf(q.ID); i >= 0 {
		s.Test.Questions[i].Question = q.Clone()
	}
}

// SelectedCount is the number of member questions.
func (s *State) SelectedCount() int {
	return len(s.Test.Questions)
}

// SelectedHeader is the heading of the assembled-question list.
func (s *State) SelectedHeader() string {
	return fmt.Sprintf("Selected Questions (%d)", s.SelectedCount())
}

// Validate checks the test can be saved.
func (s *State) Validate() error {
	if strings.TrimSpace(s.Test.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// SaveInput is the payload for creating or updating the test.
func (s *State) SaveInput() model.TestInput {
	return model.TestInput{
		Title:         strings.TrimSpace(s.Test.Title),
		Description:   s.Test.Description,
		Configuration: s.Test.Configuration.Normalized(),
		QuestionIDs:   s.Test.QuestionIDs(),
	}
}

// Count is one labelled tally.
type Count struct {
	Label string
	N     int
}

// Distribution tallies the selected questions by difficulty and by level.
type Distribution struct {
	Difficulty []Count
	Taxonomy   []Count
}

// Distribution tallies the member questions. Unset and unknown values are
// tallied under "N/A", which is omitted when zero.
func (s *State) Distribution() Distribution {
	diff := make(map[model.Difficulty]int)
	tax := make(map[model.TaxonomyLevel]int)
	var diffNA, taxNA int
	for _, ref := range s.Test.Questions {
		q := ref.Question
		switch d := model.ParseDifficulty(string(q.Difficulty)); d {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
			diff[d]++
		default:
			diffNA++
		}
		if l := model.ParseLevel(string(q.Taxonomy)); l.Known() {
			tax[l]++
		} else {
			taxNA++
		}
	}

	var d Distribution
	for _, lvl := range model.AllDifficulties() {
		d.Difficulty = append(d.Difficulty, Count{Label: lvl.Label(), N: diff[lvl]})
	}
	if diffNA > 0 {
		d.Difficulty = append(d.Difficulty, Count{Label: "N/A", N: diffNA})
	}
	for _, lvl := range model.AllLevels() {
		d.Taxonomy = append(d.Taxonomy, Count{Label: lvl.Label(), N: tax[lvl]})
	}
	if taxNA > 0 {
		d.Taxonomy = append(d.Taxonomy, Count{Label: "N/A", N: taxNA})
	}
	return d
}

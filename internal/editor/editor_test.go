package editor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/model"
)

type fakeBackend struct {
	mu sync.Mutex

	test      *model.Test
	banks     []model.QuestionBank
	questions map[string][]model.Question
	bankErr   map[string]error
	listErr   error

	created *model.TestInput
	updated *model.TestInput
}

func (f *fakeBackend) Test(_ context.Context, _, testID string) (*model.Test, error) {
	if f.test == nil || f.test.ID != testID {
		return nil, errors.New("not found")
	}
	t := *f.test
	return &t, nil
}

func (f *fakeBackend) QuestionBanks(context.Context, string) ([]model.QuestionBank, error) {
	return f.banks, f.listErr
}

func (f *fakeBackend) BankQuestions(_ context.Context, bankID string) ([]model.Question, error) {
	if err := f.bankErr[bankID]; err != nil {
		return nil, err
	}
	return append([]model.Question(nil), f.questions[bankID]...), nil
}

func (f *fakeBackend) CreateTest(_ context.Context, _ string, in model.TestInput) (*model.Test, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = &in
	return &model.Test{ID: "new", Title: in.Title}, nil
}

func (f *fakeBackend) UpdateTest(_ context.Context, _, testID string, in model.TestInput) (*model.Test, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = &in
	return &model.Test{ID: testID, Title: in.Title}, nil
}

func q(id, text string, level model.TaxonomyLevel, diff model.Difficulty) model.Question {
	return model.Question{ID: id, Text: text, Taxonomy: level, Difficulty: diff}
}

func samplePool() []model.Question {
	return []model.Question{
		q("bank1-q1", "<p>What is <b>photosynthesis</b>?</p>", model.LevelRemember, model.DifficultyEasy),
		q("bank1-q2", "<p>Apply Ohm's law</p>", model.LevelApply, model.DifficultyMedium),
		q("bank2-q1", "<p>Evaluate the PHOTO evidence</p>", model.LevelEvaluate, model.DifficultyHard),
		q("bank2-q2", "<p>Untagged</p>", "", ""),
	}
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestFiltered(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	s.Pool = samplePool()

	assert.Len(t, s.Filtered(), 4)

	s.SetQuery("photo")
	assert.Equal(t, []string{"bank1-q1", "bank2-q1"}, ids(s.Filtered()))

	s.SetQuery("b>photo")
	assert.Empty(t, s.Filtered(), "markup is not searchable")

	s.SetQuery("")
	s.ToggleLevel(model.LevelApply)
	s.ToggleLevel(model.LevelEvaluate)
	assert.Equal(t, []string{"bank1-q2", "bank2-q1"}, ids(s.Filtered()))

	s.SetBankFilter("bank2")
	assert.Equal(t, []string{"bank2-q1"}, ids(s.Filtered()))

	s.ToggleLevel(model.LevelApply)
	s.ToggleLevel(model.LevelEvaluate)
	assert.Empty(t, s.Levels)
	assert.Equal(t, []string{"bank2-q1", "bank2-q2"}, ids(s.Filtered()))
}

func TestFilteredMatchesAcrossInlineMarkup(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	s.Pool = []model.Question{
		q("bank1-q1", "<p>Water is H<sub>2</sub>O</p>", model.LevelRemember, model.DifficultyEasy),
		q("bank1-q2", "<p>Which organelle makes <b>ATP</b>?</p>", model.LevelRemember, model.DifficultyEasy),
	}

	s.SetQuery("h2o")
	assert.Equal(t, []string{"bank1-q1"}, ids(s.Filtered()))

	s.SetQuery("makes atp?")
	assert.Equal(t, []string{"bank1-q2"}, ids(s.Filtered()))
}

func TestFilteredLevelIgnoresCase(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	s.Pool = []model.Question{q("x", "text", model.TaxonomyLevel("Analyze"), "")}
	s.ToggleLevel(model.LevelAnalyze)
	assert.Len(t, s.Filtered(), 1)
}

func TestToggleQuestionSelection(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	pool := samplePool()

	s.ToggleQuestionSelection(pool[1])
	s.ToggleQuestionSelection(pool[0])
	assert.Equal(t, []string{"bank1-q2", "bank1-q1"}, s.Test.QuestionIDs())
	assert.True(t, s.IsSelected("bank1-q1"))
	assert.Equal(t, "Selected Questions (2)", s.SelectedHeader())

	s.ToggleQuestionSelection(pool[1])
	assert.Equal(t, []string{"bank1-q1"}, s.Test.QuestionIDs())
	assert.False(t, s.IsSelected("bank1-q2"))

	// The embedded snapshot is a copy.
	pool[0].Text = "changed"
	assert.NotEqual(t, "changed", s.Test.Questions[0].Question.Text)
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	pool := samplePool()
	s.ToggleQuestionSelection(pool[0])
	before := s.Test.QuestionIDs()

	s.ToggleQuestionSelection(pool[2])
	s.ToggleQuestionSelection(pool[2])
	assert.Equal(t, before, s.Test.QuestionIDs())
}

func TestValidateAndSaveInput(t *testing.T) {
	s := New("c1", model.Configuration{LetterCase: model.Lowercase, Separator: ")"})
	s.Test.Title = "   "
	assert.ErrorIs(t, s.Validate(), ErrTitleRequired)
	assert.EqualError(t, s.Validate(), "title is required")

	s.Test.Title = "  Midterm "
	s.Test.Description = "Chapters 1-3"
	for _, q := range samplePool()[:2] {
		s.ToggleQuestionSelection(q)
	}
	require.NoError(t, s.Validate())

	in := s.SaveInput()
	assert.Equal(t, "Midterm", in.Title)
	assert.Equal(t, "Chapters 1-3", in.Description)
	assert.Equal(t, model.Lowercase, in.Configuration.LetterCase)
	assert.Equal(t, []string{"bank1-q1", "bank1-q2"}, in.QuestionIDs)
}

func TestSaveBlocksEmptyTitle(t *testing.T) {
	b := &fakeBackend{}
	s := New("c1", model.DefaultConfiguration())
	_, err := Save(context.Background(), b, s)
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Nil(t, b.created)
}

func TestSaveCreatesOrUpdates(t *testing.T) {
	b := &fakeBackend{test: &model.Test{ID: "t1", Title: "Quiz"}}

	s := New("c1", model.DefaultConfiguration())
	s.Test.Title = "New"
	_, err := Save(context.Background(), b, s)
	require.NoError(t, err)
	require.NotNil(t, b.created)
	assert.Nil(t, b.updated)

	loaded, err := Load(context.Background(), b, "c1", "t1")
	require.NoError(t, err)
	assert.False(t, loaded.IsNew())
	assert.Equal(t, model.DefaultConfiguration(), loaded.Test.Configuration)

	_, err = Save(context.Background(), b, loaded)
	require.NoError(t, err)
	require.NotNil(t, b.updated)
	assert.Equal(t, "Quiz", b.updated.Title)
}

func TestLoadFailure(t *testing.T) {
	_, err := Load(context.Background(), &fakeBackend{}, "c1", "missing")
	assert.Error(t, err)
}

func TestLoadPoolKeepsBankOrderAndPartialFailures(t *testing.T) {
	b := &fakeBackend{
		banks: []model.QuestionBank{
			{ID: "b1", Name: "Cells"},
			{ID: "b2", Name: "Genetics"},
			{ID: "b3", Name: "Ecology"},
		},
		questions: map[string][]model.Question{
			"b1": {{ID: "b1-q1"}, {ID: "b1-q2"}},
			"b3": {{ID: "b3-q1", BankID: "explicit"}},
		},
		bankErr: map[string]error{"b2": errors.New("boom")},
	}

	pool := LoadPool(context.Background(), b, "c1")
	assert.Equal(t, []string{"b1-q1", "b1-q2", "b3-q1"}, ids(pool.Questions))
	assert.Equal(t, "b1", pool.Questions[0].BankID)
	assert.Equal(t, "explicit", pool.Questions[2].BankID)
	require.Error(t, pool.Err)
	assert.Contains(t, pool.Err.Error(), "Genetics")

	s := New("c1", model.DefaultConfiguration())
	s.SetPool(pool)
	assert.Len(t, s.Pool, 3)
	assert.NotEmpty(t, s.PoolError)
}

func TestLoadPoolListFailure(t *testing.T) {
	pool := LoadPool(context.Background(), &fakeBackend{listErr: errors.New("down")}, "c1")
	assert.Empty(t, pool.Questions)
	assert.Error(t, pool.Err)
}

func TestDistribution(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	for _, q := range samplePool() {
		s.ToggleQuestionSelection(q)
	}
	d := s.Distribution()

	assert.Equal(t, []Count{{"Easy", 1}, {"Medium", 1}, {"Hard", 1}, {"N/A", 1}}, d.Difficulty)
	require.Len(t, d.Taxonomy, 7)
	assert.Equal(t, Count{"Remember", 1}, d.Taxonomy[0])
	assert.Equal(t, Count{"N/A", 1}, d.Taxonomy[6])
}

func TestReplaceQuestion(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	s.Pool = samplePool()
	s.ToggleQuestionSelection(s.Pool[0])

	edited := s.Pool[0].Clone()
	edited.Taxonomy = model.LevelCreate
	s.ReplaceQuestion(edited)

	assert.Equal(t, model.LevelCreate, s.Pool[0].Taxonomy)
	assert.Equal(t, model.LevelCreate, s.Test.Questions[0].Question.Taxonomy)
}

func TestStateIsSerializable(t *testing.T) {
	s := New("c1", model.DefaultConfiguration())
	s.Test.Title = "Quiz"
	s.Pool = samplePool()
	s.ToggleQuestionSelection(s.Pool[0])
	s.ToggleLevel(model.LevelApply)

	buf, err := json.Marshal(s)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(buf, &back))
	assert.Equal(t, s.Test.QuestionIDs(), back.Test.QuestionIDs())
	assert.Equal(t, s.Levels, back.Levels)
	assert.Equal(t, ids(s.Filtered()), ids(back.Filtered()))
}

package questionedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

func question(t *testing.T, b *st.Backend) model.Question {
	t.Helper()
	return b.Questions["bio-cells"][0]
}

func TestSelectorsStartFromQuestion(t *testing.T) {
	b := st.Seeded()
	s := New(st.Env(b), question(t, b))

	q := s.Edited()
	assert.Equal(t, model.LevelRemember, q.Taxonomy)
	assert.Equal(t, model.DifficultyEasy, q.Difficulty)

	view := st.Strip(s.View(100, 30))
	assert.Contains(t, view, "[Remember]")
	assert.Contains(t, view, "Which organelle makes ATP?")
}

func TestSaveWritesMetadataAndPops(t *testing.T) {
	b := st.Seeded()
	s := New(st.Env(b), question(t, b))

	st.Press(s, "right", "right", "tab", "right")
	st.Press(s, "tab")
	st.Type(s, "Powerhouse of the cell")

	_, cmd := st.Press(s, "ctrl+s")
	_, escaped := st.Feed(s, cmd)
	require.Len(t, escaped, 1)
	pop := escaped[0].(router.PopScreenMsg)
	saved := pop.Notify.(nav.QuestionSavedMsg).Question

	assert.Equal(t, model.LevelApply, saved.Taxonomy)
	assert.Equal(t, model.DifficultyMedium, saved.Difficulty)
	assert.Equal(t, "Powerhouse of the cell", saved.Explanation)
	require.Len(t, b.SavedQuestion, 1)
	assert.Equal(t, "bio-cells-q1", b.SavedQuestion[0].ID)
	assert.NotNil(t, b.SavedQuestion[0].Statistics)
}

func TestClearingLevelSavesUnset(t *testing.T) {
	b := st.Seeded()
	s := New(st.Env(b), question(t, b))
	st.Press(s, "left")
	assert.Equal(t, model.TaxonomyLevel(""), s.Edited().Taxonomy)
}

func TestSaveFailureKeepsDialogOpen(t *testing.T) {
	b := st.Seeded()
	b.ErrQuestion = st.ErrBoom
	s := New(st.Env(b), question(t, b))
	st.Press(s, "right")

	_, cmd := st.Press(s, "ctrl+s")
	_, escaped := st.Feed(s, cmd)
	assert.Empty(t, escaped)
	assert.Contains(t, st.Strip(s.View(100, 30)), api.KindSave.Fallback())
	assert.Equal(t, model.LevelUnderstand, s.Edited().Taxonomy)
}

func TestSuggestWithoutProvider(t *testing.T) {
	b := st.Seeded()
	s := New(st.Env(b), question(t, b))
	_, cmd := st.Press(s, "ctrl+g")
	assert.Nil(t, cmd)
	assert.Contains(t, st.Strip(s.View(100, 30)), "AI suggestions are not configured")
}

func TestEscCancels(t *testing.T) {
	b := st.Seeded()
	s := New(st.Env(b), question(t, b))
	_, cmd := st.Press(s, "esc")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, router.PopScreenMsg{}, msgs[0])
	assert.Empty(t, b.SavedQuestion)
}

package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/router"
	"github.com/abhisek/smartmcq/internal/screens/nav"
	st "github.com/abhisek/smartmcq/internal/screens/screentest"
)

var cells = nav.BankRef{ID: "bio-cells", Name: "Cells"}

func open(t *testing.T, b *st.Backend) *QuestionsScreen {
	t.Helper()
	env := st.Env(b)
	env.Config.API.WebURL = "https://mcq.example.edu/"
	s := New(env, st.Bio, cells)
	st.Feed(s, s.Init())
	return s
}

func TestListsQuestionsWithBadges(t *testing.T) {
	s := open(t, st.Seeded())
	view := st.Strip(s.View(120, 30))

	assert.Contains(t, view, "Which organelle makes ATP?")
	assert.Contains(t, view, "[Easy]")
	assert.Contains(t, view, "[Remember]")
	assert.Contains(t, view, "[Apply]")
	assert.NotContains(t, view, "<b>")
	assert.Contains(t, view, "https://mcq.example.edu/courses/bio/question-banks/bio-cells/questions/bio-cells-q1/edit")
}

func TestAnswersToggle(t *testing.T) {
	s := open(t, st.Seeded())
	assert.NotContains(t, st.Strip(s.View(120, 30)), "Mitochondrion")

	st.Press(s, "v")
	view := st.Strip(s.View(120, 30))
	assert.Contains(t, view, "A. Mitochondrion")
	assert.Contains(t, view, "B. Ribosome")
}

func TestEnterOpensEditDialog(t *testing.T) {
	s := open(t, st.Seeded())
	_, cmd := st.Press(s, "down", "enter")
	msgs := st.Drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Edit Question", msgs[0].(router.PushScreenMsg).Screen.Title())
}

func TestQuestionSavedUpdatesRow(t *testing.T) {
	b := st.Seeded()
	s := open(t, b)
	q := b.Questions["bio-cells"][1].Clone()
	q.Taxonomy = model.LevelEvaluate

	s.Update(nav.QuestionSavedMsg{Question: q})
	assert.Contains(t, st.Strip(s.View(120, 30)), "[Evaluate]")
}

func TestLoadError(t *testing.T) {
	b := st.Seeded()
	b.ErrBank["bio-cells"] = st.ErrBoom
	s := open(t, b)
	view := st.Strip(s.View(120, 30))
	assert.Contains(t, view, "Failed to load data")
	assert.NotContains(t, view, "Which organelle")

	delete(b.ErrBank, "bio-cells")
	_, cmd := st.Press(s, "r")
	st.Feed(s, cmd)
	assert.Contains(t, st.Strip(s.View(120, 30)), "Which organelle")
}

// Package screentest provides fakes and key helpers for screen tests.
package screentest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/config"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/screen"
	"github.com/abhisek/smartmcq/internal/screens/nav"
)

// Key builds a key press. Named keys ("enter", "esc", "up", "down", "left",
// "right", "space", "tab", "backspace") and "ctrl+<r>" are understood; any
// other string is treated as a single printable rune.
func Key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	if rest, ok := strings.CutPrefix(k, "ctrl+"); ok {
		return tea.KeyPressMsg{Code: []rune(rest)[0], Mod: tea.ModCtrl}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Type sends each rune of text to s as a key press.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// Press sends the named keys in order and returns the last command.
func Press(s screen.Screen, keys ...string) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		s, cmd = s.Update(Key(k))
	}
	return s, cmd
}

// Strip removes ANSI styling from a rendered view.
func Strip(view string) string {
	return ansi.Strip(view)
}

// drainTimeout drops commands that wait on timers, such as cursor blinks.
const drainTimeout = 250 * time.Millisecond

// Drain runs cmd and any batched commands it expands to, returning the
// produced messages. Commands that do not finish promptly are dropped.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(drainTimeout):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Feed drains cmd and delivers every produced message back to s, repeating
// until no more messages are produced or rounds run out. Navigation
// messages are returned instead of delivered.
func Feed(s screen.Screen, cmd tea.Cmd) (screen.Screen, []tea.Msg) {
	var escaped []tea.Msg
	pending := Drain(cmd)
	for round := 0; round < 8 && len(pending) > 0; round++ {
		var next []tea.Msg
		for _, msg := range pending {
			if isNavigation(msg) {
				escaped = append(escaped, msg)
				continue
			}
			var c tea.Cmd
			s, c = s.Update(msg)
			next = append(next, Drain(c)...)
		}
		pending = next
	}
	return s, escaped
}

func isNavigation(msg tea.Msg) bool {
	pkg := fmt.Sprintf("%T", msg)
	return strings.HasPrefix(pkg, "router.") ||
		strings.HasPrefix(pkg, "nav.") ||
		strings.HasPrefix(pkg, "tea.")
}

// Backend is an in-memory nav.Backend. Set Err* fields to fail calls.
type Backend struct {
	mu sync.Mutex

	CourseList []model.Course
	Banks      map[string][]model.QuestionBank
	Questions  map[string][]model.Question
	TestList   map[string][]model.TestSummary
	TestsByID  map[string]model.Test
	Report     *model.SimilarityReport

	ErrCourses   error
	ErrBanks     error
	ErrBank      map[string]error
	ErrTests     error
	ErrTest      error
	ErrSave      error
	ErrSimilar   error
	ErrQuestion  error
	ErrQuestions error

	Created       []model.TestInput
	Updated       []model.TestInput
	SavedQuestion []model.Question
	SimilarityIDs [][]string
}

var _ nav.Backend = (*Backend)(nil)

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		Banks:     map[string][]model.QuestionBank{},
		Questions: map[string][]model.Question{},
		TestList:  map[string][]model.TestSummary{},
		TestsByID: map[string]model.Test{},
		ErrBank:   map[string]error{},
	}
}

// Unauthorized is the error the backend returns for an expired token.
func Unauthorized() error {
	return &api.Error{Kind: api.KindLoad, Status: http.StatusUnauthorized, Message: "Could not validate credentials"}
}

func (b *Backend) Courses(ctx context.Context) ([]model.Course, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.CourseList), b.ErrCourses
}

func (b *Backend) Course(ctx context.Context, courseID string) (*model.Course, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.CourseList {
		if c.ID == courseID {
			return &c, nil
		}
	}
	return nil, &api.Error{Kind: api.KindLoad, Status: http.StatusNotFound, Message: "Not found"}
}

func (b *Backend) QuestionBanks(ctx context.Context, courseID string) ([]model.QuestionBank, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ErrBanks != nil {
		return nil, b.ErrBanks
	}
	return slices.Clone(b.Banks[courseID]), nil
}

func (b *Backend) BankQuestions(ctx context.Context, bankID string) ([]model.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ErrBank[bankID]; err != nil {
		return nil, err
	}
	if b.ErrQuestions != nil {
		return nil, b.ErrQuestions
	}
	return cloneQuestions(b.Questions[bankID]), nil
}

func (b *Backend) Question(ctx context.Context, questionID string) (*model.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, qs := range b.Questions {
		for _, q := range qs {
			if q.ID == questionID {
				c := q.Clone()
				return &c, nil
			}
		}
	}
	return nil, &api.Error{Kind: api.KindLoad, Status: http.StatusNotFound, Message: "Not found"}
}

func (b *Backend) UpdateQuestion(ctx context.Context, q model.Question) (*model.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ErrQuestion != nil {
		return nil, b.ErrQuestion
	}
	b.SavedQuestion = append(b.SavedQuestion, q.Clone())
	out := q.Clone()
	return &out, nil
}

func (b *Backend) Tests(ctx context.Context, courseID string) ([]model.TestSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ErrTests != nil {
		return nil, b.ErrTests
	}
	return slices.Clone(b.TestList[courseID]), nil
}

func (b *Backend) Test(ctx context.Context, courseID, testID string) (*model.Test, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ErrTest != nil {
		return nil, b.ErrTest
	}
	t, ok := b.TestsByID[testID]
	if !ok {
		return nil, &api.Error{Kind: api.KindLoad, Status: http.StatusNotFound, Message: "Not found"}
	}
	return &t, nil
}

func (b *Backend) CreateTest(ctx context.Context, courseID string, in model.TestInput) (*model.Test, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ErrSave != nil {
		return nil, b.ErrSave
	}
	b.Created = append(b.Created, in)
	t := model.Test{ID: fmt.Sprintf("new-%d", len(b.Created)), Title: in.Title, Configuration: in.Configuration}
	return &t, nil
}

func (b *Backend) UpdateTest(ctx context.Context, courseID, testID string, in model.TestInput) (*model.Test, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ErrSave != nil {
		return nil, b.ErrSave
	}
	b.Updated = append(b.Updated, in)
	t := model.Test{ID: testID, Title: in.Title, Configuration: in.Configuration}
	return &t, nil
}

func (b *Backend) CheckSimilarity(ctx context.Context, courseID string, questionIDs []string) (*model.SimilarityReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SimilarityIDs = append(b.SimilarityIDs, slices.Clone(questionIDs))
	if b.ErrSimilar != nil {
		return nil, b.ErrSimilar
	}
	if b.Report == nil {
		return &model.SimilarityReport{CandidateQuestionCount: len(questionIDs)}, nil
	}
	r := *b.Report
	return &r, nil
}

func cloneQuestions(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// Auth is a fake nav.Authenticator accepting one username/password pair.
type Auth struct {
	Username string
	Password string
	Err      error

	LoggedOut bool
}

func (a *Auth) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if username != a.Username || password != a.Password {
		return nil, &api.Error{Kind: api.KindAuth, Status: http.StatusUnauthorized, Message: "Incorrect username or password"}
	}
	return &auth.Session{Username: username, Cookie: auth.NewCookie("token-" + username)}, nil
}

func (a *Auth) Logout(ctx context.Context) error {
	a.LoggedOut = true
	return nil
}

// Env returns an Env over backend with default configuration.
func Env(b *Backend) *nav.Env {
	return &nav.Env{
		API:    b,
		Auth:   &Auth{Username: "instructor", Password: "secret"},
		Config: config.Default(),
		User:   "instructor",
	}
}

// ErrBoom is a generic failure.
var ErrBoom = errors.New("boom")

// Seeded returns a backend holding one course with two banks, three
// questions and one test.
//
//	bio:        Biology
//	bio-cells:  bio-cells-q1 (remember, easy), bio-cells-q2 (apply, hard)
//	bio-gen:    bio-gen-q1 (understand, medium)
//	bio-mid:    Midterm [bio-cells-q1, bio-gen-q1]
func Seeded() *Backend {
	b := NewBackend()
	b.CourseList = []model.Course{{ID: "bio", Name: "Biology", Description: "Intro biology"}}
	b.Banks["bio"] = []model.QuestionBank{
		{ID: "bio-cells", CourseID: "bio", Name: "Cells", QuestionCount: 2},
		{ID: "bio-gen", CourseID: "bio", Name: "Genetics", QuestionCount: 1},
	}
	cells1 := model.Question{
		ID: "bio-cells-q1", Text: "<p>Which organelle makes <b>ATP</b>?</p>",
		Taxonomy: model.LevelRemember, Difficulty: model.DifficultyEasy,
		Answers: []model.Answer{
			{ID: "a1", Text: "Mitochondrion", Correct: true},
			{ID: "a2", Text: "Ribosome"},
		},
		Statistics: &model.Statistics{
			ScaledDifficulty:     model.Float(1.5),
			ScaledDiscrimination: model.Float(6.5),
			ClassicalParameters:  &model.ClassicalParameters{PValue: model.Float(0.9)},
		},
		BankID: "bio-cells",
	}
	cells2 := model.Question{
		ID: "bio-cells-q2", Text: "Predict osmosis in a hypertonic solution",
		Taxonomy: model.LevelApply, Difficulty: model.DifficultyHard,
		Answers: []model.Answer{{ID: "a1", Text: "Shrinks", Correct: true}, {ID: "a2", Text: "Swells"}},
		BankID:  "bio-cells",
	}
	gen1 := model.Question{
		ID: "bio-gen-q1", Text: "Explain dominance",
		Taxonomy: model.LevelUnderstand, Difficulty: model.DifficultyMedium,
		Answers: []model.Answer{{ID: "a1", Text: "One allele masks another", Correct: true}},
		Statistics: &model.Statistics{
			ScaledDifficulty:     model.Float(5),
			ScaledDiscrimination: model.Float(1),
		},
		BankID: "bio-gen",
	}
	b.Questions["bio-cells"] = []model.Question{cells1, cells2}
	b.Questions["bio-gen"] = []model.Question{gen1}

	b.TestsByID["bio-mid"] = model.Test{
		ID: "bio-mid", Title: "Midterm",
		Configuration: model.DefaultConfiguration(),
		Questions: []model.QuestionRef{
			{ID: cells1.ID, Question: cells1.Clone()},
			{ID: gen1.ID, Question: gen1.Clone()},
		},
	}
	b.TestList["bio"] = []model.TestSummary{{ID: "bio-mid", Title: "Midterm", QuestionCount: 2}}
	return b
}

// Bio is the course reference of the seeded course.
var Bio = nav.CourseRef{ID: "bio", Name: "Biology"}

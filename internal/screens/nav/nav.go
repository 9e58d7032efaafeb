// Package nav carries what console screens share: the backend they talk to,
// the messages they exchange and the scope that ties a load to the screen
// that issued it.
package nav

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/assist"
	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/config"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/store"
)

// Backend is the part of the API client screens use. *api.Client
// implements it.
type Backend interface {
	Courses(ctx context.Context) ([]model.Course, error)
	Course(ctx context.Context, courseID string) (*model.Course, error)
	QuestionBanks(ctx context.Context, courseID string) ([]model.QuestionBank, error)
	BankQuestions(ctx context.Context, bankID string) ([]model.Question, error)
	Question(ctx context.Context, questionID string) (*model.Question, error)
	UpdateQuestion(ctx context.Context, q model.Question) (*model.Question, error)
	Tests(ctx context.Context, courseID string) ([]model.TestSummary, error)
	Test(ctx context.Context, courseID, testID string) (*model.Test, error)
	CreateTest(ctx context.Context, courseID string, in model.TestInput) (*model.Test, error)
	UpdateTest(ctx context.Context, courseID, testID string, in model.TestInput) (*model.Test, error)
	CheckSimilarity(ctx context.Context, courseID string, questionIDs []string) (*model.SimilarityReport, error)
}

var _ Backend = (*api.Client)(nil)

// Authenticator signs users in and out.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout(ctx context.Context) error
}

// Env is the dependency set handed from screen to screen.
type Env struct {
	API    Backend
	Auth   Authenticator
	Events store.EventRepo
	// Assist is nil when no LLM provider is configured.
	Assist *assist.Service
	Config config.Config
	// User is the signed-in username shown in the header.
	User string
}

// Display returns the configured default rendering configuration.
func (e *Env) Display() model.Configuration {
	return e.Config.DefaultTestConfiguration()
}

// PreviewLength is the configured preview cap.
func (e *Env) PreviewLength() int {
	if n := e.Config.Display.PreviewLength; n > 0 {
		return n
	}
	return 80
}

// CourseRef is a course id with the display name that travels with
// navigation.
type CourseRef struct {
	ID   string
	Name string
}

// Label returns the name, or "Course" when the caller did not know it.
func (c CourseRef) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return "Course"
}

// BankRef is a question bank (chapter) id with its display name.
type BankRef struct {
	ID   string
	Name string
}

// Label returns the name, or "Question Bank" when unknown.
func (b BankRef) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return "Question Bank"
}

// TestsChangedMsg tells the test-bank listing to reload.
type TestsChangedMsg struct {
	CourseID string
}

// QuestionSavedMsg carries a question after the edit dialog saved it.
type QuestionSavedMsg struct {
	Question model.Question
}

// SessionExpiredMsg asks the app to return to the sign-in screen.
type SessionExpiredMsg struct{}

// SignedInMsg tells the app a session was established.
type SignedInMsg struct {
	Session *auth.Session
}

// SignedOutMsg tells the app the session was cleared.
type SignedOutMsg struct{}

// Emit wraps msg in a command.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// CheckAuth returns a SessionExpiredMsg command when err is an
// authentication failure, and nil otherwise.
func CheckAuth(err error) tea.Cmd {
	if api.IsUnauthorized(err) {
		return Emit(SessionExpiredMsg{})
	}
	return nil
}

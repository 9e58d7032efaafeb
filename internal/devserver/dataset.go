package devserver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/smartmcq/internal/model"
)

var (
	// ErrNotFound is returned for unknown courses, banks, questions or tests.
	ErrNotFound = errors.New("not found")

	// ErrBadCredentials is returned when a sign-in does not match a user.
	ErrBadCredentials = errors.New("incorrect username or password")
)

// InputError is a rejected write. Its text is shown to the client as-is.
type InputError string

func (e InputError) Error() string { return string(e) }

type user struct {
	hash []byte
	role string
}

type testRecord struct {
	id          string
	title       string
	description string
	config      model.Configuration
	questionIDs []string
	updatedAt   time.Time
}

// Dataset is the mutable in-memory backend state. All accessors return
// copies; callers never share slices with the dataset.
type Dataset struct {
	mu sync.RWMutex

	users         map[string]user
	courses       []model.Course
	banks         []model.QuestionBank
	questions     map[string]model.Question
	bankQuestions map[string][]string
	tests         map[string][]*testRecord

	now func() time.Time
}

func newDataset() *Dataset {
	return &Dataset{
		users:         make(map[string]user),
		questions:     make(map[string]model.Question),
		bankQuestions: make(map[string][]string),
		tests:         make(map[string][]*testRecord),
		now:           time.Now,
	}
}

// Authenticate checks a username and password and returns the user's role.
func (d *Dataset) Authenticate(username, password string) (string, error) {
	d.mu.RLock()
	u, ok := d.users[username]
	d.mu.RUnlock()
	if !ok {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return u.role, nil
}

func (d *Dataset) Courses() []model.Course {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.courses)
}

func (d *Dataset) Course(id string) (model.Course, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Course{}, fmt.Errorf("course %q: %w", id, ErrNotFound)
}

// Banks lists a course's banks with their current question counts.
func (d *Dataset) Banks(courseID string) ([]model.QuestionBank, error) {
	if _, err := d.Course(courseID); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []model.QuestionBank{}
	for _, b := range d.banks {
		if b.CourseID == courseID {
			b.QuestionCount = len(d.bankQuestions[b.ID])
			out = append(out, b)
		}
	}
	return out, nil
}

func (d *Dataset) BankQuestions(bankID string) ([]model.Question, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.hasBank(bankID) {
		return nil, fmt.Errorf("question bank %q: %w", bankID, ErrNotFound)
	}
	ids := d.bankQuestions[bankID]
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.questions[id].Clone())
	}
	return out, nil
}

func (d *Dataset) Question(id string) (model.Question, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	q, ok := d.questions[id]
	if !ok {
		return model.Question{}, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	return q.Clone(), nil
}

// UpdateQuestion replaces the editable fields of a stored question. The
// bank and the backend-computed statistics are kept.
func (d *Dataset) UpdateQuestion(id string, in model.Question) (model.Question, error) {
	if strings.TrimSpace(in.Text) == "" {
		return model.Question{}, InputError("Question text is required")
	}
	if in.Taxonomy != "" && !in.Taxonomy.Known() {
		return model.Question{}, InputError(fmt.Sprintf("Unknown taxonomy level %q", in.Taxonomy))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	stored, ok := d.questions[id]
	if !ok {
		return model.Question{}, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	next := in.Clone()
	next.ID = id
	next.BankID = stored.BankID
	next.Statistics = stored.Statistics
	d.questions[id] = next
	return next.Clone(), nil
}

// Tests lists a course's tests, most recently updated first.
func (d *Dataset) Tests(courseID string) ([]model.TestSummary, error) {
	if _, err := d.Course(courseID); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []model.TestSummary{}
	for _, r := range d.tests[courseID] {
		out = append(out, model.TestSummary{
			ID:            r.id,
			Title:         r.title,
			Description:   r.description,
			QuestionCount: len(r.questionIDs),
			UpdatedAt:     r.updatedAt,
		})
	}
	slices.SortStableFunc(out, func(a, b model.TestSummary) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}

func (d *Dataset) Test(courseID, testID string) (model.Test, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r := d.findTest(courseID, testID)
	if r == nil {
		return model.Test{}, fmt.Errorf("test %q: %w", testID, ErrNotFound)
	}
	return d.materialize(r), nil
}

// AllTests returns every test of a course with embedded question snapshots.
func (d *Dataset) AllTests(courseID string) []model.Test {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Test, 0, len(d.tests[courseID]))
	for _, r := range d.tests[courseID] {
		out = append(out, d.materialize(r))
	}
	return out
}

func (d *Dataset) CreateTest(courseID string, in model.TestInput) (model.Test, error) {
	if _, err := d.Course(courseID); err != nil {
		return model.Test{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.putTest(courseID, "", in)
}

func (d *Dataset) UpdateTest(courseID, testID string, in model.TestInput) (model.Test, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.findTest(courseID, testID) == nil {
		return model.Test{}, fmt.Errorf("test %q: %w", testID, ErrNotFound)
	}
	return d.putTest(courseID, testID, in)
}

// Lookup returns the stored questions for ids, skipping unknown ones.
func (d *Dataset) Lookup(ids []string) []model.Question {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := d.questions[id]; ok {
			out = append(out, q.Clone())
		}
	}
	return out
}

// putTest creates or replaces a test. Callers hold the write lock.
func (d *Dataset) putTest(courseID, testID string, in model.TestInput) (model.Test, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Test{}, InputError("Title is required")
	}
	seen := make(map[string]bool, len(in.QuestionIDs))
	for _, id := range in.QuestionIDs {
		if _, ok := d.questions[id]; !ok {
			return model.Test{}, InputError(fmt.Sprintf("Unknown question %q", id))
		}
		if seen[id] {
			return model.Test{}, InputError(fmt.Sprintf("Question %q is listed twice", id))
		}
		seen[id] = true
	}

	r := d.findTest(courseID, testID)
	if r == nil {
		if testID == "" {
			testID = uuid.NewString()
		}
		r = &testRecord{id: testID}
		d.tests[courseID] = append(d.tests[courseID], r)
	}
	r.title = title
	r.description = in.Description
	r.config = in.Configuration.Normalized()
	r.questionIDs = slices.Clone(in.QuestionIDs)
	r.updatedAt = d.now()
	return d.materialize(r), nil
}

func (d *Dataset) findTest(courseID, testID string) *testRecord {
	if testID == "" {
		return nil
	}
	for _, r := range d.tests[courseID] {
		if r.id == testID {
			return r
		}
	}
	return nil
}

func (d *Dataset) materialize(r *testRecord) model.Test {
	t := model.Test{
		ID:            r.id,
		Title:         r.title,
		Description:   r.description,
		Configuration: r.config,
		Questions:     make([]model.QuestionRef, 0, len(r.questionIDs)),
	}
	for _, id := range r.questionIDs {
		t.Questions = append(t.Questions, model.QuestionRef{ID: id, Question: d.questions[id].Clone()})
	}
	return t
}

func (d *Dataset) hasBank(id string) bool {
	return slices.ContainsFunc(d.banks, func(b model.QuestionBank) bool { return b.ID == id })
}

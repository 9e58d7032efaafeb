package devserver

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/smartmcq/internal/model"
)

//go:embed fixtures/default.yaml
var defaultFixtures []byte

// Fixtures is the YAML shape of a development dataset.
type Fixtures struct {
	Users   []UserFixture   `yaml:"users"`
	Courses []CourseFixture `yaml:"courses"`
}

// UserFixture is an account. Either Password or PasswordHash (bcrypt) is
// required.
type UserFixture struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

type CourseFixture struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Banks       []BankFixture `yaml:"banks"`
	Tests       []TestFixture `yaml:"tests"`
}

type BankFixture struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Questions   []QuestionFixture `yaml:"questions"`
}

type QuestionFixture struct {
	ID          string          `yaml:"id"`
	Text        string          `yaml:"text"`
	Difficulty  string          `yaml:"difficulty"`
	Taxonomy    string          `yaml:"taxonomy"`
	Explanation string          `yaml:"explanation"`
	Answers     []AnswerFixture `yaml:"answers"`
	Stats       *StatsFixture   `yaml:"statistics"`
}

type AnswerFixture struct {
	Text        string `yaml:"text"`
	Correct     bool   `yaml:"correct"`
	Explanation string `yaml:"explanation"`
}

type StatsFixture struct {
	ScaledDifficulty     *float64 `yaml:"scaled_difficulty"`
	ScaledDiscrimination *float64 `yaml:"scaled_discrimination"`
	PValue               *float64 `yaml:"p_value"`
}

type TestFixture struct {
	ID               string   `yaml:"id"`
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	LetterCase       string   `yaml:"letter_case"`
	Separator        string   `yaml:"separator"`
	IncludeAnswerKey bool     `yaml:"include_answer_key"`
	Questions        []string `yaml:"questions"`
}

// LoadFixtures reads a fixture file. An empty path loads the built-in
// sample dataset.
func LoadFixtures(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

// Dataset builds the in-memory dataset, hashing plain-text passwords.
func (f *Fixtures) Dataset() (*Dataset, error) {
	d := newDataset()

	for _, u := range f.Users {
		hash := []byte(u.PasswordHash)
		if len(hash) == 0 {
			if u.Password == "" {
				return nil, fmt.Errorf("user %q has no password", u.Username)
			}
			var err error
			hash, err = bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %q: %w", u.Username, err)
			}
		}
		role := u.Role
		if role == "" {
			role = "instructor"
		}
		d.users[u.Username] = user{hash: hash, role: role}
	}

	for _, c := range f.Courses {
		d.courses = append(d.courses, model.Course{ID: c.ID, Name: c.Name, Description: c.Description})
		for _, b := range c.Banks {
			bank := model.QuestionBank{ID: b.ID, CourseID: c.ID, Name: b.Name, Description: b.Description}
			for i, qf := range b.Questions {
				q := qf.question(b.ID, i)
				if _, dup := d.questions[q.ID]; dup {
					return nil, fmt.Errorf("duplicate question id %q", q.ID)
				}
				d.questions[q.ID] = q
				d.bankQuestions[b.ID] = append(d.bankQuestions[b.ID], q.ID)
			}
			d.banks = append(d.banks, bank)
		}
		for _, tf := range c.Tests {
			in := model.TestInput{
				Title:       tf.Title,
				Description: tf.Description,
				Configuration: model.Configuration{
					LetterCase:       model.LetterCase(strings.ToLower(tf.LetterCase)),
					Separator:        tf.Separator,
					IncludeAnswerKey: tf.IncludeAnswerKey,
				},
				QuestionIDs: tf.Questions,
			}
			if _, err := d.putTest(c.ID, tf.ID, in); err != nil {
				return nil, fmt.Errorf("test %q: %w", tf.ID, err)
			}
		}
	}
	return d, nil
}

func (qf QuestionFixture) question(bankID string, i int) model.Question {
	id := qf.ID
	if id == "" {
		id = fmt.Sprintf("%s-q%d", bankID, i+1)
	}
	q := model.Question{
		ID:          id,
		Text:        qf.Text,
		Difficulty:  model.ParseDifficulty(qf.Difficulty),
		Taxonomy:    model.ParseLevel(qf.Taxonomy),
		Explanation: qf.Explanation,
		BankID:      bankID,
	}
	for j, a := range qf.Answers {
		q.Answers = append(q.Answers, model.Answer{
			ID:          fmt.Sprintf("%s-a%d", id, j+1),
			Text:        a.Text,
			Correct:     a.Correct,
			Explanation: a.Explanation,
		})
	}
	if s := qf.Stats; s != nil {
		q.Statistics = &model.Statistics{
			ScaledDifficulty:     s.ScaledDifficulty,
			ScaledDiscrimination: s.ScaledDiscrimination,
		}
		if s.PValue != nil {
			q.Statistics.ClassicalParameters = &model.ClassicalParameters{PValue: s.PValue}
		}
	}
	return q
}

package editor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/smartmcq/internal/model"
)

// poolConcurrency bounds concurrent bank fetches.
const poolConcurrency = 4

// Backend is the subset of the API client the editor needs.
type Backend interface {
	Test(ctx context.Context, courseID, testID string) (*model.Test, error)
	QuestionBanks(ctx context.Context, courseID string) ([]model.QuestionBank, error)
	BankQuestions(ctx context.Context, bankID string) ([]model.Question, error)
	CreateTest(ctx context.Context, courseID string, in model.TestInput) (*model.Test, error)
	UpdateTest(ctx context.Context, courseID, testID string, in model.TestInput) (*model.Test, error)
}

// Load fetches the test for editing.
func Load(ctx context.Context, b Backend, courseID, testID string) (*State, error) {
	t, err := b.Test(ctx, courseID, testID)
	if err != nil {
		return nil, err
	}
	return FromTest(courseID, *t), nil
}

// Pool is the set of questions available to a test.
type Pool struct {
	Banks     []model.QuestionBank
	Questions []model.Question
	// Err joins the per-bank failures, or holds the bank listing failure.
	Err error
}

// LoadPool fetches every bank of the course and its questions. Banks load
// concurrently; questions are concatenated in bank order. A failed bank is
// recorded in Pool.Err and the other banks are kept.
func LoadPool(ctx context.Context, b Backend, courseID string) Pool {
	banks, err := b.QuestionBanks(ctx, courseID)
	if err != nil {
		return Pool{Err: fmt.Errorf("list question banks: %w", err)}
	}

	results := make([][]model.Question, len(banks))
	errs := make([]error, len(banks))

	var g errgroup.Group
	g.SetLimit(poolConcurrency)
	for i, bank := range banks {
		g.Go(func() error {
			qs, err := b.BankQuestions(ctx, bank.ID)
			if err != nil {
				errs[i] = fmt.Errorf("bank %s: %w", bankName(bank), err)
				return nil
			}
			for j := range qs {
				if qs[j].BankID == "" {
					qs[j].BankID = bank.ID
				}
			}
			results[i] = qs
			return nil
		})
	}
	_ = g.Wait()

	pool := Pool{Banks: banks, Err: errors.Join(errs...)}
	for _, qs := range results {
		pool.Questions = append(pool.Questions, qs...)
	}
	return pool
}

func bankName(b model.QuestionBank) string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// Save validates the state and creates or updates the test. Local state is
// not modified; the caller navigates away on success.
func Save(ctx context.Context, b Backend, s *State) (*model.Test, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	in := s.SaveInput()
	if s.IsNew() {
		return b.CreateTest(ctx, s.CourseID, in)
	}
	return b.UpdateTest(ctx, s.CourseID, s.Test.ID, in)
}

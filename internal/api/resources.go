package api

import (
	"context"
	"net/http"

	"github.com/abhisek/smartmcq/internal/model"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// IssueToken exchanges credentials for an access token.
func (c *Client) IssueToken(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, KindAuth, http.MethodPost, "/api/auth/token",
		tokenRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &Error{Kind: KindAuth, Status: http.StatusOK, Message: KindAuth.Fallback()}
	}
	return out.AccessToken, nil
}

// Courses lists the courses visible to the signed-in user.
func (c *Client) Courses(ctx context.Context) ([]model.Course, error) {
	var out []model.Course
	if err := c.get(ctx, "/api/courses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Course fetches one course.
func (c *Client) Course(ctx context.Context, courseID string) (*model.Course, error) {
	var out model.Course
	if err := c.get(ctx, pathf("/api/courses/%s", courseID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuestionBanks lists a course's question banks.
func (c *Client) QuestionBanks(ctx context.Context, courseID string) ([]model.QuestionBank, error) {
	var out []model.QuestionBank
	if err := c.get(ctx, pathf("/api/courses/%s/question-banks", courseID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BankQuestions lists the questions of one bank.
func (c *Client) BankQuestions(ctx context.Context, bankID string) ([]model.Question, error) {
	var out []model.Question
	if err := c.get(ctx, pathf("/api/question-banks/%s/questions", bankID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Question fetches one question.
func (c *Client) Question(ctx context.Context, questionID string) (*model.Question, error) {
	var out model.Question
	if err := c.get(ctx, pathf("/api/questions/%s", questionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuestion saves q and returns the stored version.
func (c *Client) UpdateQuestion(ctx context.Context, q model.Question) (*model.Question, error) {
	var out model.Question
	if err := c.do(ctx, KindSave, http.MethodPut, pathf("/api/questions/%s", q.ID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tests lists a course's tests.
func (c *Client) Tests(ctx context.Context, courseID string) ([]model.TestSummary, error) {
	var out []model.TestSummary
	if err := c.get(ctx, pathf("/api/courses/%s/tests", courseID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Test fetches one test with its embedded questions.
func (c *Client) Test(ctx context.Context, courseID, testID string) (*model.Test, error) {
	var out model.Test
	if err := c.get(ctx, pathf("/api/courses/%s/tests/%s", courseID, testID), &out); err != nil {
		return nil, err
	}
	out.Configuration = out.Configuration.Normalized()
	return &out, nil
}

// CreateTest creates a test in the course.
func (c *Client) CreateTest(ctx context.Context, courseID string, in model.TestInput) (*model.Test, error) {
	var out model.Test
	if err := c.do(ctx, KindSave, http.MethodPost, pathf("/api/courses/%s/tests", courseID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTest replaces a test's title, description, configuration and members.
func (c *Client) UpdateTest(ctx context.Context, courseID, testID string, in model.TestInput) (*model.Test, error) {
	var out model.Test
	path := pathf("/api/courses/%s/tests/%s", courseID, testID)
	if err := c.do(ctx, KindSave, http.MethodPut, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type similarityRequest struct {
	QuestionIDs []string `json:"question_ids"`
}

// CheckSimilarity compares a candidate question set with the course's
// existing tests.
func (c *Client) CheckSimilarity(ctx context.Context, courseID string, questionIDs []string) (*model.SimilarityReport, error) {
	var out model.SimilarityReport
	path := pathf("/api/courses/%s/tests/similarity-check", courseID)
	if err := c.do(ctx, KindSave, http.MethodPost, path, similarityRequest{QuestionIDs: questionIDs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package model

// SimilarityReport is the backend's answer to a similarity check of a
// candidate question set against the course's existing tests.
type SimilarityReport struct {
	CandidateQuestionCount int           `json:"candidate_question_count"`
	TotalSimilarTests      int           `json:"total_similar_tests"`
	Threshold              float64       `json:"threshold"`
	SimilarTests           []SimilarTest `json:"similar_tests"`
}

// HasMatches reports whether the dialog needs to be shown.
func (r SimilarityReport) HasMatches() bool {
	return r.TotalSimilarTests > 0 || len(r.SimilarTests) > 0
}

// SimilarTest is one existing test that overlaps the candidate set.
type SimilarTest struct {
	TestID         string         `json:"test_id"`
	Title          string         `json:"title"`
	Similarity     float64        `json:"similarity"`
	MatchedCount   int            `json:"matched_count"`
	TotalQuestions int            `json:"total_questions"`
	Coverage       float64        `json:"coverage"`
	QuestionPairs  []QuestionPair `json:"question_pairs"`
}

// QuestionPair matches a candidate question to an existing one.
type QuestionPair struct {
	Candidate  QuestionStub `json:"candidate"`
	Existing   QuestionStub `json:"existing"`
	Similarity float64      `json:"similarity"`
}

// QuestionStub is the minimal question view carried by a report.
type QuestionStub struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	BankID string `json:"bank_id,omitempty"`
}

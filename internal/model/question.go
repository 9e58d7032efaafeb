package model

import "encoding/json"

// Answer is one option of a multiple-choice question.
type Answer struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Correct     bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// ClassicalParameters holds classical test theory item parameters.
type ClassicalParameters struct {
	PValue *float64 `json:"p_value,omitempty"`
}

// Statistics are backend-computed psychometric scores. Each metric is
// optional; a nil pointer means the backend has not computed it.
type Statistics struct {
	ScaledDifficulty     *float64             `json:"scaled_difficulty,omitempty"`
	ScaledDiscrimination *float64             `json:"scaled_discrimination,omitempty"`
	ClassicalParameters  *ClassicalParameters `json:"classical_parameters,omitempty"`
}

// Question is a multiple-choice question as held by the console.
//
// Taxonomy is the single source of truth for the Bloom level. The backend's
// two representations (a direct taxonomyLevel field and a taxonomies
// association list) are folded into it on decode and regenerated from it on
// encode.
type Question struct {
	ID          string
	Text        string
	Answers     []Answer
	Difficulty  Difficulty
	Taxonomy    TaxonomyLevel
	Explanation string
	Statistics  *Statistics
	BankID      string
}

// ScaledDifficulty returns the scaled difficulty, if the question has one.
func (q Question) ScaledDifficulty() (float64, bool) {
	if q.Statistics == nil || q.Statistics.ScaledDifficulty == nil {
		return 0, false
	}
	return *q.Statistics.ScaledDifficulty, true
}

// ScaledDiscrimination returns the scaled discrimination, if present.
func (q Question) ScaledDiscrimination() (float64, bool) {
	if q.Statistics == nil || q.Statistics.ScaledDiscrimination == nil {
		return 0, false
	}
	return *q.Statistics.ScaledDiscrimination, true
}

// PValue returns the classical p-value, if present.
func (q Question) PValue() (float64, bool) {
	if q.Statistics == nil || q.Statistics.ClassicalParameters == nil ||
		q.Statistics.ClassicalParameters.PValue == nil {
		return 0, false
	}
	return *q.Statistics.ClassicalParameters.PValue, true
}

// Clone returns a deep copy so a snapshot held by a Test is not aliased by
// the candidate pool.
func (q Question) Clone() Question {
	c := q
	if q.Answers != nil {
		c.Answers = make([]Answer, len(q.Answers))
		copy(c.Answers, q.Answers)
	}
	if q.Statistics != nil {
		st := cloneStatistics(*q.Statistics)
		c.Statistics = &st
	}
	return c
}

func cloneStatistics(s Statistics) Statistics {
	out := Statistics{
		ScaledDifficulty:     cloneFloat(s.ScaledDifficulty),
		ScaledDiscrimination: cloneFloat(s.ScaledDiscrimination),
	}
	if s.ClassicalParameters != nil {
		out.ClassicalParameters = &ClassicalParameters{PValue: cloneFloat(s.ClassicalParameters.PValue)}
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Float returns a pointer to v. Handy for building Statistics literals.
func Float(v float64) *float64 {
	return &v
}

type taxonomyRef struct {
	Name string `json:"name"`
}

type taxonomyAssociation struct {
	Taxonomy taxonomyRef `json:"taxonomy"`
	Level    string      `json:"level"`
}

// questionWire is the backend JSON shape of a question.
type questionWire struct {
	ID            string                `json:"id"`
	Text          string                `json:"text"`
	Answers       []Answer              `json:"answers"`
	Difficulty    Difficulty            `json:"difficulty,omitempty"`
	TaxonomyLevel string                `json:"taxonomyLevel,omitempty"`
	Taxonomies    []taxonomyAssociation `json:"taxonomies,omitempty"`
	Explanation   string                `json:"explanation,omitempty"`
	Statistics    *Statistics           `json:"statistics,omitempty"`
	BankID        string                `json:"bank_id,omitempty"`
}

// MarshalJSON writes both taxonomy shapes from the normalized field.
func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID:          q.ID,
		Text:        q.Text,
		Answers:     q.Answers,
		Difficulty:  q.Difficulty,
		Explanation: q.Explanation,
		Statistics:  q.Statistics,
		BankID:      q.BankID,
	}
	if w.Answers == nil {
		w.Answers = []Answer{}
	}
	if q.Taxonomy != "" {
		w.TaxonomyLevel = string(q.Taxonomy)
		w.Taxonomies = []taxonomyAssociation{{
			Taxonomy: taxonomyRef{Name: BloomTaxonomyName},
			Level:    string(q.Taxonomy),
		}}
	}
	return json.Marshal(w)
}

// UnmarshalJSON folds the backend's taxonomy shapes into Taxonomy.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Question{
		ID:          w.ID,
		Text:        w.Text,
		Answers:     w.Answers,
		Difficulty:  ParseDifficulty(string(w.Difficulty)),
		Taxonomy:    resolveTaxonomy(w.TaxonomyLevel, w.Taxonomies),
		Explanation: w.Explanation,
		Statistics:  w.Statistics,
		BankID:      w.BankID,
	}
	return nil
}

// resolveTaxonomy prefers a Bloom's Taxonomy association, then the direct
// field. The empty level means "N/A".
func resolveTaxonomy(direct string, assoc []taxonomyAssociation) TaxonomyLevel {
	for _, a := range assoc {
		if a.Taxonomy.Name == BloomTaxonomyName && a.Level != "" {
			return ParseLevel(a.Level)
		}
	}
	return ParseLevel(direct)
}

package grading

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SubmissionRequest is the input to create a submission. Built once per
// submit action and never mutated.
type SubmissionRequest struct {
	ProblemID    int64
	LanguageID   int64
	LanguageName string
	SourceCode   string
	UserID       string
}

// Submission is the normalized client-side view of a grading record.
// Raw wire shapes never leave this package.
type Submission struct {
	ID            string           `json:"id"`
	Status        string           `json:"status"`
	ProblemID     int64            `json:"problem_id,omitempty"`
	ProblemTitle  string           `json:"problem_title,omitempty"`
	Language      string           `json:"language,omitempty"`
	UserID        string           `json:"user_id,omitempty"`
	ExecutionTime *float64         `json:"execution_time,omitempty"`
	MemoryUsed    *int64           `json:"memory_used,omitempty"`
	CompileOutput string           `json:"compile_output,omitempty"`
	Stderr        string           `json:"stderr,omitempty"`
	TestCases     []TestCaseResult `json:"test_cases,omitempty"`
	CreatedAt     string           `json:"created_at,omitempty"`
}

// TestCaseResult is one per-test outcome. Immutable once returned.
type TestCaseResult struct {
	Input             string `json:"input"`
	ExpectedOutput    string `json:"expected_output"`
	ActualOutput      string `json:"actual_output,omitempty"`
	Passed            bool   `json:"passed"`
	Status            string `json:"status,omitempty"`
	StatusDescription string `json:"status_description,omitempty"`
}

// Problem is a catalog entry from the grading service.
type Problem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// Language is one entry of the language catalog.
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListFilters narrows a submission listing. Zero values mean "not set".
type ListFilters struct {
	UserID    string
	ProblemID int64
	Status    string
	Limit     int
	Skip      int
}

// flexID accepts either a JSON string or number and keeps it as an opaque
// string. Submission identifiers are never interpreted numerically.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// wireSubmission mirrors the grading service's record, including the legacy
// field aliases some deployments still emit.
type wireSubmission struct {
	ID             flexID           `json:"id"`
	LegacyID       flexID           `json:"id_submission"`
	Status         string           `json:"status"`
	LegacyStatus   string           `json:"status_submission"`
	ProblemID      int64            `json:"problem_id"`
	Language       string           `json:"language"`
	LegacyLanguage string           `json:"language_submission"`
	UserID         flexID           `json:"user_id"`
	ExecutionTime  *float64         `json:"execution_time"`
	MemoryUsed     *int64           `json:"memory_used"`
	CompileOutput  string           `json:"compile_output"`
	Stderr         string           `json:"stderr"`
	TestCases      []wireTestCase   `json:"test_cases"`
	CreatedAt      string           `json:"created_at"`
	Problem        *wireProblemStub `json:"problem"`
}

type wireProblemStub struct {
	Title string `json:"title"`
}

type wireTestCase struct {
	Input             string `json:"input"`
	LegacyInput       string `json:"input_data"`
	ExpectedOutput    string `json:"expected_output"`
	ActualOutput      string `json:"actual_output"`
	LegacyOutput      string `json:"output"`
	Passed            *bool  `json:"passed"`
	Status            string `json:"status"`
	StatusDescription string `json:"status_description"`
}

// wireSubmissionList accepts both shapes the list endpoints return: a flat
// array, or an envelope with paging metadata.
type wireSubmissionList struct {
	Submissions []wireSubmission
	TotalPages  int
}

func (l *wireSubmissionList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Submissions)
	}
	var envelope struct {
		Submissions []wireSubmission `json:"submissions"`
		TotalPages  int              `json:"total_pages"`
		// Some deployments camel-case the page count.
		TotalPagesAlt int `json:"totalPages"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	l.Submissions = envelope.Submissions
	l.TotalPages = envelope.TotalPages
	if l.TotalPages == 0 {
		l.TotalPages = envelope.TotalPagesAlt
	}
	return nil
}

// Validate checks a request before any network call is made.
func (r SubmissionRequest) Validate() error {
	switch {
	case r.ProblemID <= 0:
		return errInvalidProblemID
	case r.LanguageID <= 0:
		return errInvalidLanguageID
	case strings.TrimSpace(r.SourceCode) == "":
		return errEmptySource
	}
	return nil
}

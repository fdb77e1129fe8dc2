package grading

import "strings"

// DefaultStatus is used when a record carries no status at all. A missing
// status never counts as a result.
const DefaultStatus = "Pending"

// nonTerminalStatuses are grading states that still change on later reads.
// Comparison is case-insensitive.
var nonTerminalStatuses = map[string]struct{}{
	"in_queue":   {},
	"in queue":   {},
	"processing": {},
	"pending":    {},
}

// IsTerminal reports whether a normalized status will not change on
// subsequent reads. Empty and unknown-transient statuses are non-terminal:
// absence of data never settles a submission.
func IsTerminal(status string) bool {
	if status == "" {
		return false
	}
	_, transient := nonTerminalStatuses[strings.ToLower(status)]
	return !transient
}

// normalizeSubmission maps a wire record onto the canonical shape. The
// canonical field wins; the legacy alias is the fallback. This is the single
// place alias handling happens — consumers only ever see Submission.
func normalizeSubmission(w wireSubmission) Submission {
	s := Submission{
		ID:            string(firstID(w.ID, w.LegacyID)),
		Status:        firstString(w.Status, w.LegacyStatus, DefaultStatus),
		ProblemID:     w.ProblemID,
		Language:      firstString(w.Language, w.LegacyLanguage, ""),
		UserID:        string(w.UserID),
		ExecutionTime: w.ExecutionTime,
		MemoryUsed:    w.MemoryUsed,
		CompileOutput: w.CompileOutput,
		Stderr:        w.Stderr,
		CreatedAt:     w.CreatedAt,
	}
	if w.Problem != nil {
		s.ProblemTitle = w.Problem.Title
	}
	if len(w.TestCases) > 0 {
		s.TestCases = make([]TestCaseResult, 0, len(w.TestCases))
		for _, tc := range w.TestCases {
			s.TestCases = append(s.TestCases, normalizeTestCase(tc))
		}
	}
	return s
}

func normalizeTestCase(w wireTestCase) TestCaseResult {
	tc := TestCaseResult{
		Input:             firstString(w.Input, w.LegacyInput, ""),
		ExpectedOutput:    w.ExpectedOutput,
		ActualOutput:      firstString(w.ActualOutput, w.LegacyOutput, ""),
		Status:            w.Status,
		StatusDescription: w.StatusDescription,
	}
	if w.Passed != nil {
		tc.Passed = *w.Passed
	} else {
		tc.Passed = strings.Contains(strings.ToLower(w.Status), "accepted")
	}
	return tc
}

func normalizeSubmissions(ws []wireSubmission) []Submission {
	result := make([]Submission, 0, len(ws))
	for _, w := range ws {
		result = append(result, normalizeSubmission(w))
	}
	return result
}

func firstString(canonical, legacy, fallback string) string {
	if canonical != "" {
		return canonical
	}
	if legacy != "" {
		return legacy
	}
	return fallback
}

func firstID(canonical, legacy flexID) flexID {
	if canonical != "" {
		return canonical
	}
	return legacy
}

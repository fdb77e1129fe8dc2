package stats

import (
	"testing"

	"vjudge/internal/grading"
)

func sub(problemID int64, language, status, createdAt string) grading.Submission {
	return grading.Submission{
		ProblemID: problemID,
		Language:  language,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestByLanguageEmptyHistory(t *testing.T) {
	byLang := ByLanguage(nil)
	if len(byLang) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(byLang))
	}
}

func TestByLanguageCounters(t *testing.T) {
	var subs []grading.Submission
	for i := 0; i < 7; i++ {
		subs = append(subs, sub(int64(i+1), "Python 3.8", "Accepted", ""))
	}
	for i := 0; i < 3; i++ {
		subs = append(subs, sub(int64(i+1), "Python 3.8", "Wrong Answer", ""))
	}
	subs = append(subs, sub(50, "Go (1.13.5)", "Accepted", ""))

	byLang := ByLanguage(subs)
	py := byLang["Python 3.8"]
	if py.Count != 10 || py.Accepted != 7 {
		t.Fatalf("expected 10 submissions / 7 accepted, got %d / %d", py.Count, py.Accepted)
	}
	if py.SuccessRate != 70 {
		t.Fatalf("expected success rate 70, got %d", py.SuccessRate)
	}
	if py.Percentage != 91 { // round(10/11*100)
		t.Fatalf("expected share 91, got %d", py.Percentage)
	}
	if byLang["Go (1.13.5)"].SuccessRate != 100 {
		t.Fatalf("expected 100%% success for single accepted submission")
	}
}

func TestByLanguageCaseInsensitiveAccepted(t *testing.T) {
	byLang := ByLanguage([]grading.Submission{
		sub(1, "Ruby (2.7.0)", "accepted", ""),
		sub(2, "Ruby (2.7.0)", "ACCEPTED", ""),
	})
	if byLang["Ruby (2.7.0)"].Accepted != 2 {
		t.Fatalf("accepted matching must ignore case, got %d", byLang["Ruby (2.7.0)"].Accepted)
	}
}

func TestLanguagesSortedOrder(t *testing.T) {
	subs := []grading.Submission{
		sub(1, "C (GCC 9.2.0)", "Accepted", ""),
		sub(2, "Python 3.8", "Accepted", ""),
		sub(3, "Python 3.8", "Wrong Answer", ""),
		sub(4, "Java (OpenJDK 13.0.1)", "Accepted", ""),
	}
	sorted := LanguagesSorted(subs)
	if len(sorted) != 3 {
		t.Fatalf("expected 3 languages, got %d", len(sorted))
	}
	if sorted[0].Language != "Python 3.8" {
		t.Fatalf("expected most used language first, got %q", sorted[0].Language)
	}
	// Single-submission languages tie; names break the tie.
	if sorted[1].Language != "C (GCC 9.2.0)" || sorted[2].Language != "Java (OpenJDK 13.0.1)" {
		t.Fatalf("tie not broken by name: %q, %q", sorted[1].Language, sorted[2].Language)
	}
}

func TestSolvedProblemsUniqueFirstWins(t *testing.T) {
	subs := []grading.Submission{
		sub(1, "Python 3.8", "Accepted", "2024-01-03"),
		sub(2, "Python 3.8", "Wrong Answer", "2024-01-02"),
		sub(1, "Go (1.13.5)", "Accepted", "2024-01-01"),
		sub(3, "Python 3.8", "Accepted", "2024-01-01"),
	}
	solved := SolvedProblems(subs)
	if len(solved) != 2 {
		t.Fatalf("expected 2 unique solved problems, got %d", len(solved))
	}
	if solved[0].ProblemID != 1 || solved[0].Language != "Python 3.8" {
		t.Fatalf("first acceptance must win: %+v", solved[0])
	}
	if solved[1].ProblemID != 3 {
		t.Fatalf("expected problem 3 second, got %d", solved[1].ProblemID)
	}
}

func TestSolvedProblemsSkipsMissingProblemID(t *testing.T) {
	solved := SolvedProblems([]grading.Submission{sub(0, "Python 3.8", "Accepted", "")})
	if len(solved) != 0 {
		t.Fatalf("submissions without a problem id must not count as solved")
	}
}

func TestComputeProfile(t *testing.T) {
	subs := []grading.Submission{
		sub(1, "Python 3.8", "Accepted", "2024-03-10"),
		sub(2, "Python 3.8", "Wrong Answer", "2024-03-09"),
		sub(3, "Go (1.13.5)", "Accepted", "2024-03-08"),
		sub(3, "Go (1.13.5)", "Compilation Error", "2024-03-07"),
	}
	profile := ComputeProfile(subs)
	if profile.TotalSubmissions != 4 || profile.ProblemsSolved != 2 {
		t.Fatalf("unexpected totals: %+v", profile)
	}
	if profile.SuccessRate != 50 {
		t.Fatalf("expected 50%% success, got %d", profile.SuccessRate)
	}
	if profile.LastSubmission != "2024-03-10" {
		t.Fatalf("last submission must come from the newest entry, got %q", profile.LastSubmission)
	}
	if profile.Level != "Novice" {
		t.Fatalf("expected Novice for 2 solved, got %q", profile.Level)
	}
}

func TestComputeProfileEmptyHistory(t *testing.T) {
	profile := ComputeProfile(nil)
	if profile.TotalSubmissions != 0 || profile.SuccessRate != 0 || profile.LastSubmission != "" {
		t.Fatalf("unexpected profile for empty history: %+v", profile)
	}
	if profile.Level != "Beginner" {
		t.Fatalf("expected Beginner, got %q", profile.Level)
	}
}

func TestLevelTiers(t *testing.T) {
	cases := []struct {
		solved int
		level  string
	}{
		{0, "Beginner"},
		{1, "Novice"},
		{9, "Novice"},
		{10, "Intermediate"},
		{29, "Intermediate"},
		{30, "Advanced"},
		{99, "Advanced"},
		{100, "Expert"},
	}
	for _, tc := range cases {
		if got := Level(tc.solved); got != tc.level {
			t.Errorf("Level(%d) = %q, want %q", tc.solved, got, tc.level)
		}
	}
}

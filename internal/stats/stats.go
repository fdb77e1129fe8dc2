// Package stats derives profile statistics from submission history. All
// reductions are pure: same input, same output, no I/O.
package stats

import (
	"math"
	"sort"
	"strings"

	"vjudge/internal/grading"
)

const acceptedStatus = "accepted"

// LanguageStat aggregates one language's submission history.
type LanguageStat struct {
	Language    string `json:"language"`
	Count       int    `json:"count"`
	Accepted    int    `json:"accepted"`
	SuccessRate int    `json:"success_rate"`
	Percentage  int    `json:"percentage"`
}

// SolvedProblem records the first accepted submission for a problem.
type SolvedProblem struct {
	ProblemID int64  `json:"problem_id"`
	Title     string `json:"title"`
	SolvedAt  string `json:"solved_at"`
	Language  string `json:"language"`
}

// Profile summarizes a user's history. Level follows the platform's solved
// count tiers.
type Profile struct {
	ProblemsSolved   int    `json:"problems_solved"`
	TotalSubmissions int    `json:"total_submissions"`
	SuccessRate      int    `json:"success_rate"`
	LastSubmission   string `json:"last_submission,omitempty"`
	Level            string `json:"level"`
}

func isAccepted(s grading.Submission) bool {
	return strings.EqualFold(s.Status, acceptedStatus)
}

// ByLanguage computes per-language counters. An empty history yields an
// empty map. Success rate is round(accepted/count*100); percentage is the
// language's share of all submissions.
func ByLanguage(subs []grading.Submission) map[string]LanguageStat {
	result := make(map[string]LanguageStat, 4)
	total := len(subs)
	for _, sub := range subs {
		stat := result[sub.Language]
		stat.Language = sub.Language
		stat.Count++
		if isAccepted(sub) {
			stat.Accepted++
		}
		result[sub.Language] = stat
	}
	for lang, stat := range result {
		stat.SuccessRate = percentage(stat.Accepted, stat.Count)
		stat.Percentage = percentage(stat.Count, total)
		result[lang] = stat
	}
	return result
}

// LanguagesSorted returns the per-language stats ordered by submission count
// descending, ties broken by name, for stable rendering.
func LanguagesSorted(subs []grading.Submission) []LanguageStat {
	byLang := ByLanguage(subs)
	out := make([]LanguageStat, 0, len(byLang))
	for _, stat := range byLang {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out
}

// SolvedProblems returns the unique accepted problems, first acceptance wins.
// Order follows first appearance in the input.
func SolvedProblems(subs []grading.Submission) []SolvedProblem {
	seen := make(map[int64]struct{}, len(subs))
	var solved []SolvedProblem
	for _, sub := range subs {
		if !isAccepted(sub) || sub.ProblemID <= 0 {
			continue
		}
		if _, ok := seen[sub.ProblemID]; ok {
			continue
		}
		seen[sub.ProblemID] = struct{}{}
		solved = append(solved, SolvedProblem{
			ProblemID: sub.ProblemID,
			Title:     sub.ProblemTitle,
			SolvedAt:  sub.CreatedAt,
			Language:  sub.Language,
		})
	}
	return solved
}

// ComputeProfile summarizes a history. The input is expected newest-first;
// the last submission timestamp is taken from the first element.
func ComputeProfile(subs []grading.Submission) Profile {
	accepted := 0
	for _, sub := range subs {
		if isAccepted(sub) {
			accepted++
		}
	}
	solved := len(SolvedProblems(subs))

	profile := Profile{
		ProblemsSolved:   solved,
		TotalSubmissions: len(subs),
		SuccessRate:      percentage(accepted, len(subs)),
		Level:            Level(solved),
	}
	if len(subs) > 0 {
		profile.LastSubmission = subs[0].CreatedAt
	}
	return profile
}

// Level maps a solved-problem count to the platform's named tiers.
func Level(solvedCount int) string {
	switch {
	case solvedCount == 0:
		return "Beginner"
	case solvedCount < 10:
		return "Novice"
	case solvedCount < 30:
		return "Intermediate"
	case solvedCount < 100:
		return "Advanced"
	default:
		return "Expert"
	}
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

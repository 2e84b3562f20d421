package game

import (
	"testing"

	"lan-quiz-server/internal/domain"
)

func TestLeaderboardSortsByScoreStable(t *testing.T) {
	players := map[string]*domain.Player{
		"c1": {ID: "c1", Name: "Alice", Score: 100},
		"c2": {ID: "c2", Name: "Bob", Score: 250},
		"c3": {ID: "c3", Name: "Cara", Score: 100},
	}
	entries := leaderboard(players, []string{"c1", "c2", "c3"})

	got := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	want := []string{"Bob", "Alice", "Cara"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestCategoryStatsSumCorrectFlagsAcrossPlayers(t *testing.T) {
	qs := []domain.Question{
		{Category: "A", Options: []string{"x", "y"}, CorrectIndex: 0},
		{Category: "A", Options: []string{"x", "y"}, CorrectIndex: 0},
		{Category: "B", Options: []string{"x", "y"}, CorrectIndex: 0},
	}
	players := map[string]*domain.Player{
		// Alice gets both "A" questions right and misses "B".
		"c1": {Answers: []domain.Answer{
			{QuestionIndex: 0, Correct: true},
			{QuestionIndex: 1, Correct: true},
			{QuestionIndex: 2, Correct: false},
		}},
		// Bob misses everything except "B".
		"c2": {Answers: []domain.Answer{
			{QuestionIndex: 0, Correct: false},
			{QuestionIndex: 1, Correct: false},
			{QuestionIndex: 2, Correct: true},
		}},
	}

	stats := categoryStats(qs, players)
	if stats["A"].Total != 2 || stats["B"].Total != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	// Correct counts are summed across all players' logs, not per player.
	if stats["A"].Correct != 2 {
		t.Fatalf("expected A.correct=2, got %d", stats["A"].Correct)
	}
	if stats["B"].Correct != 1 {
		t.Fatalf("expected B.correct=1, got %d", stats["B"].Correct)
	}
}

func TestCategoryStatsIncludeUnansweredCategories(t *testing.T) {
	qs := []domain.Question{
		{Category: "A", Options: []string{"x"}, CorrectIndex: 0},
		{Category: "B", Options: []string{"x"}, CorrectIndex: 0},
	}
	stats := categoryStats(qs, map[string]*domain.Player{})
	if stats["A"].Total != 1 || stats["A"].Correct != 0 {
		t.Fatalf("unexpected stats for unanswered category: %+v", stats)
	}
	if len(stats) != 2 {
		t.Fatalf("every category present in the question set must be reported, got %+v", stats)
	}
}

func TestQuestionStatsDistribution(t *testing.T) {
	q := domain.Question{Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2}
	answers := map[string]domain.Answer{
		"c1": {Option: 2, Correct: true},
		"c2": {Option: 2, Correct: true},
		"c3": {Option: 0, Correct: false},
	}
	stats := questionStats(q, answers)
	if stats.TotalResponses != 3 || stats.CorrectCount != 2 || stats.WrongCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AnswerDistribution[2] != 2 || stats.AnswerDistribution[0] != 1 {
		t.Fatalf("unexpected distribution: %v", stats.AnswerDistribution)
	}
}

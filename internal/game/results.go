package game

import (
	"sort"

	"lan-quiz-server/internal/domain"
)

// leaderboard returns player summaries sorted by descending score. The sort is
// stable over join order so ties keep their original ordering.
func leaderboard(players map[string]*domain.Player, joinOrder []string) []domain.PlayerSummary {
	entries := make([]domain.PlayerSummary, 0, len(players))
	for _, id := range joinOrder {
		p, ok := players[id]
		if !ok {
			continue
		}
		entries = append(entries, domain.PlayerSummary{
			ID:             p.ID,
			Name:           p.Name,
			Specialty:      p.Specialty,
			Score:          p.Score,
			CorrectAnswers: p.CorrectCount,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// categoryStats counts, per category, the questions asked and the correct
// answers summed across every player's answer log.
func categoryStats(questions []domain.Question, players map[string]*domain.Player) map[string]domain.CategoryStat {
	stats := make(map[string]domain.CategoryStat)
	for _, q := range questions {
		st := stats[q.Category]
		st.Total++
		stats[q.Category] = st
	}
	for _, p := range players {
		for _, a := range p.Answers {
			if !a.Correct || a.QuestionIndex >= len(questions) {
				continue
			}
			category := questions[a.QuestionIndex].Category
			st := stats[category]
			st.Correct++
			stats[category] = st
		}
	}
	return stats
}

// questionStats summarizes the answers collected for a single question,
// including how submissions spread across the options.
func questionStats(q domain.Question, answers map[string]domain.Answer) domain.QuestionStats {
	stats := domain.QuestionStats{
		TotalResponses:     len(answers),
		AnswerDistribution: make([]int, len(q.Options)),
	}
	for _, a := range answers {
		if a.Correct {
			stats.CorrectCount++
		} else {
			stats.WrongCount++
		}
		if a.Option >= 0 && a.Option < len(q.Options) {
			stats.AnswerDistribution[a.Option]++
		}
	}
	return stats
}

// Package questions turns a question bank into per-game question sets.
package questions

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"lan-quiz-server/internal/domain"
)

// Bank provides the full question inventory (cached in-memory or in Redis,
// loaded from Postgres or a static seed).
type Bank interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// BankSource selects, shuffles and truncates questions from a Bank according
// to the admin's selector.
type BankSource struct {
	bank Bank

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankSource(bank Bank) *BankSource {
	return &BankSource{
		bank: bank,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Select returns a shuffled question set for the selector, truncated to
// sel.Count when positive. Category matching is case-insensitive; an empty or
// "all" category selects the whole bank.
func (s *BankSource) Select(ctx context.Context, sel domain.Selector) ([]domain.Question, error) {
	all, err := s.bank.Questions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Question, 0, len(all))
	for _, q := range all {
		if matchesCategory(q.Category, sel.Category) {
			filtered = append(filtered, q)
		}
	}
	if len(filtered) == 0 {
		return nil, domain.ErrNoQuestionsAvailable
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	s.mu.Unlock()

	if sel.Count > 0 && sel.Count < len(filtered) {
		filtered = filtered[:sel.Count]
	}
	return filtered, nil
}

func matchesCategory(category, selector string) bool {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, "all") {
		return true
	}
	return strings.EqualFold(category, selector)
}

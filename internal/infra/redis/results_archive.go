package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lan-quiz-server/internal/domain"
)

const lastResultsKey = "quiz:results:last"

// ResultsArchive stores the latest final results so they survive an admin
// page reload between games. Best effort only; the game never depends on it.
type ResultsArchive struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultsArchive(client *redis.Client, ttl time.Duration) *ResultsArchive {
	return &ResultsArchive{client: client, ttl: ttl}
}

func (a *ResultsArchive) SaveResults(ctx context.Context, results domain.GameResults) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := a.client.Set(ctx, lastResultsKey, data, a.ttl).Err(); err != nil {
		return fmt.Errorf("store results: %w", err)
	}
	return nil
}

// LastResults returns the most recently archived results, if any.
func (a *ResultsArchive) LastResults(ctx context.Context) (domain.GameResults, bool, error) {
	data, err := a.client.Get(ctx, lastResultsKey).Bytes()
	if err == redis.Nil {
		return domain.GameResults{}, false, nil
	}
	if err != nil {
		return domain.GameResults{}, false, fmt.Errorf("load results: %w", err)
	}
	var results domain.GameResults
	if err := json.Unmarshal(data, &results); err != nil {
		return domain.GameResults{}, false, fmt.Errorf("unmarshal results: %w", err)
	}
	return results, true, nil
}

package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"lan-quiz-server/internal/domain"
)

func TestResultsArchiveRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	archive := NewResultsArchive(newClient(mr), time.Hour)

	if _, ok, err := archive.LastResults(context.Background()); err != nil || ok {
		t.Fatalf("expected no archived results yet, got ok=%v err=%v", ok, err)
	}

	results := domain.GameResults{
		Players: []domain.PlayerSummary{
			{ID: "c1", Name: "Alice", Score: 310, CorrectAnswers: 2},
		},
		TotalQuestions: 3,
		CategoryStats: map[string]domain.CategoryStat{
			"Math": {Total: 3, Correct: 2},
		},
	}
	if err := archive.SaveResults(context.Background(), results); err != nil {
		t.Fatalf("save results: %v", err)
	}
	if !mr.Exists(lastResultsKey) {
		t.Fatalf("expected archived key %s", lastResultsKey)
	}

	got, ok, err := archive.LastResults(context.Background())
	if err != nil || !ok {
		t.Fatalf("load results: ok=%v err=%v", ok, err)
	}
	if got.Players[0].Score != 310 || got.CategoryStats["Math"].Correct != 2 {
		t.Fatalf("unexpected archived results: %+v", got)
	}
}

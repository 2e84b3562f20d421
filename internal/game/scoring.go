package game

import (
	"math"
	"time"
)

const (
	// QuestionDuration is the per-question answer window.
	QuestionDuration = 30 * time.Second

	basePoints            = 100
	timeBonusFactor       = 2
	streakBonusThreshold  = 3
	streakBonusMultiplier = 1.2
)

// Score computes the points awarded for a single answer. remainingSeconds is
// the time left on the question clock at submission (clamped to >= 0), streak
// is the player's streak after this answer has been applied. Incorrect
// answers always score zero.
func Score(correct bool, remainingSeconds, streak int) int {
	if !correct {
		return 0
	}
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	multiplier := 1.0
	if streak >= streakBonusThreshold {
		multiplier = streakBonusMultiplier
	}
	return int(math.Round(float64(basePoints+remainingSeconds*timeBonusFactor) * multiplier))
}

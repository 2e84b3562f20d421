package domain

import "time"

// Phase is the session's current stage.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseAwaiting Phase = "waiting_answer"
	PhaseRevealed Phase = "revealed"
	PhaseEnded    Phase = "ended"
)

// Question is a single multiple-choice question. Immutable once part of a
// running game's question set.
type Question struct {
	ID           int      `json:"id,omitempty"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	Prompt       string   `json:"question"`
	Context      string   `json:"context,omitempty"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Answer records one player's submission for one question.
type Answer struct {
	QuestionIndex int       `json:"questionIndex"`
	Option        int       `json:"answer"`
	Correct       bool      `json:"correct"`
	SubmittedAt   time.Time `json:"timestamp"`
}

// Player holds a connected player's identity and running totals.
type Player struct {
	ID           string
	Name         string
	Specialty    string
	Score        int
	Streak       int
	BestStreak   int
	CorrectCount int
	Answers      []Answer
}

// PlayerSummary is the roster/leaderboard view of a player.
type PlayerSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialty      string `json:"specialty"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
}

// QuestionStats summarizes the answers received for one question.
type QuestionStats struct {
	TotalResponses     int   `json:"totalResponses"`
	CorrectCount       int   `json:"correctCount"`
	WrongCount         int   `json:"wrongCount"`
	AnswerDistribution []int `json:"answerDistribution"`
}

// CategoryStat aggregates accuracy for one question category across all players.
type CategoryStat struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// GameResults is the final snapshot produced when a game ends.
type GameResults struct {
	Players        []PlayerSummary         `json:"players"`
	TotalQuestions int                     `json:"totalQuestions"`
	CategoryStats  map[string]CategoryStat `json:"categoryStats"`
}

// Selector describes which questions a game should be built from.
type Selector struct {
	Category string
	Topic    string
	Count    int
}

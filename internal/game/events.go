package game

import "lan-quiz-server/internal/domain"

// Scope selects which connections an outbound event is delivered to.
type Scope int

const (
	// ScopeAll fans out to every connected observer, players and admins alike.
	ScopeAll Scope = iota
	// ScopeConn targets a single connection.
	ScopeConn
	// ScopeAdmins targets the admin group only.
	ScopeAdmins
)

// Event is one outbound message produced by applying a command to the session.
// The transport layer is responsible for delivery; the core only decides what
// goes where.
type Event struct {
	Scope   Scope
	ConnID  string
	Type    string
	Payload any
}

const (
	EventJoinSuccess     = "joinSuccess"
	EventError           = "error"
	EventUpdatePlayers   = "updatePlayers"
	EventGameStarted     = "gameStarted"
	EventNewQuestion     = "newQuestion"
	EventTimerUpdate     = "timerUpdate"
	EventTimeUp          = "timeUp"
	EventAnswerReceived  = "answerReceived"
	EventAnswerSubmitted = "answerSubmitted"
	EventRevealAnswer    = "revealAnswer"
	EventGameEnded       = "gameEnded"
	EventGameRestarted   = "gameRestarted"
	EventAdminState      = "adminState"
)

type JoinSuccessPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type UpdatePlayersPayload struct {
	Players []domain.PlayerSummary `json:"players"`
	Count   int                    `json:"count"`
}

type NewQuestionPayload struct {
	QuestionIndex  int      `json:"questionIndex"`
	Question       string   `json:"question"`
	Context        string   `json:"context,omitempty"`
	Options        []string `json:"options"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	TotalQuestions int      `json:"totalQuestions"`
	TimeLeft       int      `json:"timeLeft"`
}

type TimerUpdatePayload struct {
	TimeLeft int `json:"timeLeft"`
}

type AnswerReceivedPayload struct {
	Correct       bool `json:"correct"`
	Points        int  `json:"points"`
	Streak        int  `json:"streak"`
	AnsweredCount int  `json:"answeredCount"`
	TotalPlayers  int  `json:"totalPlayers"`
}

type AnswerSubmittedPayload struct {
	PlayerName    string `json:"playerName"`
	PlayerID      string `json:"playerId"`
	IsCorrect     bool   `json:"isCorrect"`
	AnsweredCount int    `json:"answeredCount"`
	TotalPlayers  int    `json:"totalPlayers"`
}

type RevealAnswerPayload struct {
	CorrectIndex  int                  `json:"correctIndex"`
	CorrectAnswer string               `json:"correctAnswer"`
	Explanation   string               `json:"explanation"`
	PlayerStats   domain.QuestionStats `json:"playerStats"`
}

// AdminQuestionView is the admin-only view of the current question, including
// the correct option.
type AdminQuestionView struct {
	Question     string   `json:"question"`
	Context      string   `json:"context,omitempty"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type AdminStatePayload struct {
	Status               domain.Phase           `json:"status"`
	CurrentQuestionIndex int                    `json:"currentQuestionIndex"`
	Players              []domain.PlayerSummary `json:"players"`
	Question             *AdminQuestionView     `json:"question"`
	TotalQuestions       int                    `json:"totalQuestions"`
	TimeLeft             int                    `json:"timeLeft"`
}

func toAll(eventType string, payload any) Event {
	return Event{Scope: ScopeAll, Type: eventType, Payload: payload}
}

func toConn(connID, eventType string, payload any) Event {
	return Event{Scope: ScopeConn, ConnID: connID, Type: eventType, Payload: payload}
}

func toAdmins(eventType string, payload any) Event {
	return Event{Scope: ScopeAdmins, Type: eventType, Payload: payload}
}

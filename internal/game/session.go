package game

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"lan-quiz-server/internal/domain"
)

// Session is the authoritative state of the single quiz game hosted by this
// process: phase, question set, per-player totals and the answer ledger for
// the current question. Methods are not safe for concurrent use; the Service
// serializes all access.
type Session struct {
	clock            clockwork.Clock
	questionDuration time.Duration

	phase             domain.Phase
	questions         []domain.Question
	questionIndex     int
	questionStartedAt time.Time
	timerGen          uint64

	players        map[string]*domain.Player
	joinOrder      []string
	currentAnswers map[string]domain.Answer
}

func newSession(clock clockwork.Clock, questionDuration time.Duration) *Session {
	return &Session{
		clock:            clock,
		questionDuration: questionDuration,
		phase:            domain.PhaseLobby,
		players:          make(map[string]*domain.Player),
		currentAnswers:   make(map[string]domain.Answer),
	}
}

// NewSession builds a session for direct use in tests; production code goes
// through NewService.
func NewSession(clock clockwork.Clock, questionDuration time.Duration) *Session {
	return newSession(clock, questionDuration)
}

func (s *Session) Phase() domain.Phase { return s.phase }

// TimerGen identifies the currently armed question timer. Ticks carrying an
// older generation are stale and must be ignored.
func (s *Session) TimerGen() uint64 { return s.timerGen }

func (s *Session) started() bool { return s.phase != domain.PhaseLobby }

// Join registers a new player. The name must be non-empty after trimming and
// unique (case-insensitive) among currently connected players.
func (s *Session) Join(connID, name, specialty string) ([]Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingName
	}
	for _, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return nil, domain.ErrDuplicateName
		}
	}
	if specialty == "" {
		specialty = "unspecified"
	}

	s.players[connID] = &domain.Player{
		ID:        connID,
		Name:      name,
		Specialty: specialty,
	}
	s.joinOrder = append(s.joinOrder, connID)

	events := []Event{
		toConn(connID, EventJoinSuccess, JoinSuccessPayload{PlayerID: connID, PlayerName: name}),
		toAll(EventUpdatePlayers, s.rosterPayload()),
	}
	// Late joiners get the live question so they can use whatever window remains.
	if s.phase == domain.PhaseAwaiting {
		q := s.questions[s.questionIndex]
		events = append(events, toConn(connID, EventNewQuestion, s.questionPayload(q)))
	}
	return events, nil
}

// Leave removes a player and any answer they have pending for the current
// question. Unknown connections (admin observers included) produce no events.
func (s *Session) Leave(connID string) []Event {
	if _, ok := s.players[connID]; !ok {
		return nil
	}
	delete(s.players, connID)
	delete(s.currentAnswers, connID)
	for i, id := range s.joinOrder {
		if id == connID {
			s.joinOrder = append(s.joinOrder[:i], s.joinOrder[i+1:]...)
			break
		}
	}
	return []Event{toAll(EventUpdatePlayers, s.rosterPayload())}
}

// Start begins a game with the given question set. Duplicate starts are
// silently ignored; an empty question set aborts with ErrNoQuestionsAvailable
// and leaves the phase untouched.
func (s *Session) Start(questions []domain.Question) ([]Event, error) {
	if s.started() {
		return nil, nil
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestionsAvailable
	}

	for _, p := range s.players {
		p.Score = 0
		p.Streak = 0
		p.BestStreak = 0
		p.CorrectCount = 0
		p.Answers = nil
	}
	s.questions = questions

	events := []Event{toAll(EventGameStarted, struct{}{})}
	return append(events, s.beginQuestion(0)), nil
}

// Advance moves to the next question, or ends the game when the current
// question was the last one.
func (s *Session) Advance() ([]Event, error) {
	if !s.started() {
		return nil, domain.ErrNotStarted
	}
	if s.phase == domain.PhaseEnded {
		return nil, domain.ErrInvalidPhase
	}

	next := s.questionIndex + 1
	if next >= len(s.questions) {
		return s.end(), nil
	}
	return []Event{s.beginQuestion(next)}, nil
}

// Reveal closes the current question and publishes the correct answer along
// with per-question answer statistics.
func (s *Session) Reveal() ([]Event, error) {
	if s.phase != domain.PhaseAwaiting {
		return nil, domain.ErrInvalidPhase
	}
	s.phase = domain.PhaseRevealed
	q := s.questions[s.questionIndex]
	return []Event{toAll(EventRevealAnswer, RevealAnswerPayload{
		CorrectIndex:  q.CorrectIndex,
		CorrectAnswer: q.Options[q.CorrectIndex],
		Explanation:   q.Explanation,
		PlayerStats:   questionStats(q, s.currentAnswers),
	})}, nil
}

// Restart returns to the lobby from any phase, dropping all players. Everyone
// must rejoin.
func (s *Session) Restart() []Event {
	s.phase = domain.PhaseLobby
	s.questions = nil
	s.questionIndex = 0
	s.questionStartedAt = time.Time{}
	s.timerGen++
	s.players = make(map[string]*domain.Player)
	s.joinOrder = nil
	s.currentAnswers = make(map[string]domain.Answer)

	return []Event{
		toAll(EventGameRestarted, struct{}{}),
		toAll(EventUpdatePlayers, UpdatePlayersPayload{Players: []domain.PlayerSummary{}, Count: 0}),
	}
}

// SubmitAnswer records one answer for the current question. Out-of-phase
// submissions, unknown connections, duplicates and answers arriving after the
// window closed are all dropped without error, to tolerate retransmitted
// network events.
func (s *Session) SubmitAnswer(connID string, option int) []Event {
	if s.phase != domain.PhaseAwaiting {
		return nil
	}
	player, ok := s.players[connID]
	if !ok {
		return nil
	}
	if _, answered := s.currentAnswers[connID]; answered {
		return nil
	}
	remaining := s.remainingSeconds()
	if remaining <= 0 {
		return nil
	}
	q := s.questions[s.questionIndex]
	if option < 0 || option >= len(q.Options) {
		return nil
	}

	correct := option == q.CorrectIndex
	answer := domain.Answer{
		QuestionIndex: s.questionIndex,
		Option:        option,
		Correct:       correct,
		SubmittedAt:   s.clock.Now(),
	}
	s.currentAnswers[connID] = answer
	player.Answers = append(player.Answers, answer)

	points := 0
	if correct {
		player.CorrectCount++
		player.Streak++
		if player.Streak > player.BestStreak {
			player.BestStreak = player.Streak
		}
		points = Score(true, remaining, player.Streak)
		player.Score += points
	} else {
		player.Streak = 0
	}

	return []Event{
		toConn(connID, EventAnswerReceived, AnswerReceivedPayload{
			Correct:       correct,
			Points:        points,
			Streak:        player.Streak,
			AnsweredCount: len(s.currentAnswers),
			TotalPlayers:  len(s.players),
		}),
		toAdmins(EventAnswerSubmitted, AnswerSubmittedPayload{
			PlayerName:    player.Name,
			PlayerID:      connID,
			IsCorrect:     correct,
			AnsweredCount: len(s.currentAnswers),
			TotalPlayers:  len(s.players),
		}),
	}
}

// AdminState builds the full snapshot sent to a freshly connected admin.
func (s *Session) AdminState(connID string) Event {
	payload := AdminStatePayload{
		Status:               s.phase,
		CurrentQuestionIndex: s.questionIndex,
		Players:              s.rosterPayload().Players,
		TotalQuestions:       len(s.questions),
	}
	if s.phase == domain.PhaseAwaiting || s.phase == domain.PhaseRevealed {
		q := s.questions[s.questionIndex]
		payload.Question = &AdminQuestionView{
			Question:     q.Prompt,
			Context:      q.Context,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		}
		if s.phase == domain.PhaseAwaiting {
			payload.TimeLeft = s.remainingSeconds()
		}
	}
	return toConn(connID, EventAdminState, payload)
}

// Tick is invoked by the round timer once per second. A tick whose generation
// no longer matches, or that lands outside the answer window, is stale: it
// produces nothing and tells the timer to stop.
func (s *Session) Tick(gen uint64) (events []Event, done bool) {
	if gen != s.timerGen || s.phase != domain.PhaseAwaiting {
		return nil, true
	}
	remaining := s.remainingSeconds()
	if remaining <= 0 {
		return []Event{toAll(EventTimeUp, struct{}{})}, true
	}
	return []Event{toAll(EventTimerUpdate, TimerUpdatePayload{TimeLeft: remaining})}, false
}

// Results aggregates the final leaderboard and per-category accuracy. Pure
// read; valid in any phase but meaningful once the game has ended.
func (s *Session) Results() domain.GameResults {
	return domain.GameResults{
		Players:        leaderboard(s.players, s.joinOrder),
		TotalQuestions: len(s.questions),
		CategoryStats:  categoryStats(s.questions, s.players),
	}
}

func (s *Session) beginQuestion(index int) Event {
	s.questionIndex = index
	s.phase = domain.PhaseAwaiting
	s.questionStartedAt = s.clock.Now()
	s.timerGen++
	s.currentAnswers = make(map[string]domain.Answer)
	return toAll(EventNewQuestion, s.questionPayload(s.questions[index]))
}

func (s *Session) end() []Event {
	s.phase = domain.PhaseEnded
	s.questionStartedAt = time.Time{}
	s.timerGen++
	return []Event{toAll(EventGameEnded, s.Results())}
}

func (s *Session) questionPayload(q domain.Question) NewQuestionPayload {
	return NewQuestionPayload{
		QuestionIndex:  s.questionIndex,
		Question:       q.Prompt,
		Context:        q.Context,
		Options:        q.Options,
		Category:       q.Category,
		Difficulty:     q.Difficulty,
		TotalQuestions: len(s.questions),
		TimeLeft:       s.remainingSeconds(),
	}
}

// remainingSeconds derives the answer window from wall-clock time since the
// question started, clamped to [0, questionDuration].
func (s *Session) remainingSeconds() int {
	if s.questionStartedAt.IsZero() {
		return 0
	}
	total := int(s.questionDuration / time.Second)
	elapsed := int(s.clock.Since(s.questionStartedAt) / time.Second)
	remaining := total - elapsed
	if remaining < 0 {
		return 0
	}
	if remaining > total {
		return total
	}
	return remaining
}

func (s *Session) rosterPayload() UpdatePlayersPayload {
	return UpdatePlayersPayload{
		Players: leaderboard(s.players, s.joinOrder),
		Count:   len(s.players),
	}
}

package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"lan-quiz-server/internal/domain"
)

func testQuestions() []domain.Question {
	return []domain.Question{
		{
			Category:     "A",
			Difficulty:   "basic",
			Prompt:       "first",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 1,
			Explanation:  "because",
		},
		{
			Category:     "A",
			Difficulty:   "basic",
			Prompt:       "second",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 2,
		},
		{
			Category:     "B",
			Difficulty:   "advanced",
			Prompt:       "third",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 0,
		},
	}
}

func newTestSession() (*Session, *clockwork.FakeClock) {
	fc := clockwork.NewFakeClock()
	return NewSession(fc, QuestionDuration), fc
}

func findEvent(t *testing.T, events []Event, eventType string) Event {
	t.Helper()
	for _, ev := range events {
		if ev.Type == eventType {
			return ev
		}
	}
	t.Fatalf("expected %s event, got %+v", eventType, events)
	return Event{}
}

func hasEvent(events []Event, eventType string) bool {
	for _, ev := range events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

func TestStartRequiresQuestions(t *testing.T) {
	s, _ := newTestSession()

	if _, err := s.Start(nil); err != domain.ErrNoQuestionsAvailable {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}
	if s.Phase() != domain.PhaseLobby {
		t.Fatalf("failed start must leave phase untouched, got %s", s.Phase())
	}
}

func TestStartIsIdempotent(t *testing.T) {
	s, _ := newTestSession()

	events, err := s.Start(testQuestions())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !hasEvent(events, EventGameStarted) || !hasEvent(events, EventNewQuestion) {
		t.Fatalf("expected gameStarted and newQuestion, got %+v", events)
	}

	events, err = s.Start(testQuestions())
	if err != nil || len(events) != 0 {
		t.Fatalf("duplicate start must be a silent no-op, got events=%v err=%v", events, err)
	}
}

func TestStartResetsPlayerTotals(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SubmitAnswer("c1", 1)
	s.phase = domain.PhaseLobby // simulate a fresh lobby without dropping the player
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("second start: %v", err)
	}

	p := s.players["c1"]
	if p.Score != 0 || p.Streak != 0 || p.BestStreak != 0 || p.CorrectCount != 0 || len(p.Answers) != 0 {
		t.Fatalf("start must reset player totals, got %+v", p)
	}
}

func TestJoinValidation(t *testing.T) {
	s, _ := newTestSession()

	if _, err := s.Join("c1", "   ", "math"); err != domain.ErrMissingName {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
	if _, err := s.Join("c1", "Alice", "math"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Join("c2", "alice", "science"); err != domain.ErrDuplicateName {
		t.Fatalf("expected case-insensitive ErrDuplicateName, got %v", err)
	}
}

func TestLateJoinReceivesCurrentQuestion(t *testing.T) {
	s, fc := newTestSession()
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	fc.Advance(10 * time.Second)

	events, err := s.Join("late", "Bob", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	ev := findEvent(t, events, EventNewQuestion)
	if ev.Scope != ScopeConn || ev.ConnID != "late" {
		t.Fatalf("late-join snapshot must target the joiner, got %+v", ev)
	}
	payload := ev.Payload.(NewQuestionPayload)
	if payload.TimeLeft != 20 {
		t.Fatalf("expected 20s left on late join, got %d", payload.TimeLeft)
	}
	if payload.QuestionIndex != 0 {
		t.Fatalf("expected question 0, got %d", payload.QuestionIndex)
	}
}

func TestSubmitAnswerOncePerQuestion(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if events := s.SubmitAnswer("c1", 1); !hasEvent(events, EventAnswerReceived) {
		t.Fatalf("expected answerReceived, got %+v", events)
	}
	for i := 0; i < 3; i++ {
		if events := s.SubmitAnswer("c1", 2); len(events) != 0 {
			t.Fatalf("duplicate submission must be dropped, got %+v", events)
		}
	}
	if len(s.currentAnswers) != 1 {
		t.Fatalf("expected exactly one recorded answer, got %d", len(s.currentAnswers))
	}
	if got := len(s.players["c1"].Answers); got != 1 {
		t.Fatalf("expected one logged answer, got %d", got)
	}
}

func TestSubmitAnswerGuards(t *testing.T) {
	s, fc := newTestSession()

	if events := s.SubmitAnswer("ghost", 0); len(events) != 0 {
		t.Fatalf("submission before start must be dropped, got %+v", events)
	}

	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if events := s.SubmitAnswer("ghost", 0); len(events) != 0 {
		t.Fatalf("unknown connection must be dropped, got %+v", events)
	}
	if events := s.SubmitAnswer("c1", 99); len(events) != 0 {
		t.Fatalf("out-of-range option must be dropped, got %+v", events)
	}

	fc.Advance(31 * time.Second)
	if events := s.SubmitAnswer("c1", 1); len(events) != 0 {
		t.Fatalf("submission after the window closed must be dropped, got %+v", events)
	}
}

func TestStreakScoring(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Correct answer at full time: 160 points, streak 1.
	events := s.SubmitAnswer("c1", 1)
	got := findEvent(t, events, EventAnswerReceived).Payload.(AnswerReceivedPayload)
	if !got.Correct || got.Points != 160 || got.Streak != 1 {
		t.Fatalf("unexpected first answer result: %+v", got)
	}

	// Wrong answer on question 2 resets the streak and scores nothing.
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	events = s.SubmitAnswer("c1", 0)
	got = findEvent(t, events, EventAnswerReceived).Payload.(AnswerReceivedPayload)
	if got.Correct || got.Points != 0 || got.Streak != 0 {
		t.Fatalf("incorrect answer must score 0 and reset streak: %+v", got)
	}

	p := s.players["c1"]
	if p.BestStreak != 1 {
		t.Fatalf("best streak must survive a miss, got %d", p.BestStreak)
	}
	if p.Score != 160 {
		t.Fatalf("expected score 160, got %d", p.Score)
	}
}

func TestAdvanceBeforeStart(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Advance(); err != domain.ErrNotStarted {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestAdvancePastLastQuestionEndsGame(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()[:1]); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SubmitAnswer("c1", 1)

	events, err := s.Advance()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	ev := findEvent(t, events, EventGameEnded)
	if s.Phase() != domain.PhaseEnded {
		t.Fatalf("expected ended phase, got %s", s.Phase())
	}
	results := ev.Payload.(domain.GameResults)
	if results.TotalQuestions != 1 || len(results.Players) != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}

	if _, err := s.Advance(); err != domain.ErrInvalidPhase {
		t.Fatalf("advance after end must fail with ErrInvalidPhase, got %v", err)
	}
}

func TestRevealOnlyWhileAwaiting(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Reveal(); err != domain.ErrInvalidPhase {
		t.Fatalf("expected ErrInvalidPhase in lobby, got %v", err)
	}

	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Join("c2", "Bob", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SubmitAnswer("c1", 1) // correct
	s.SubmitAnswer("c2", 3) // wrong

	events, err := s.Reveal()
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	payload := findEvent(t, events, EventRevealAnswer).Payload.(RevealAnswerPayload)
	if payload.CorrectIndex != 1 || payload.CorrectAnswer != "b" {
		t.Fatalf("unexpected reveal payload: %+v", payload)
	}
	stats := payload.PlayerStats
	if stats.TotalResponses != 2 || stats.CorrectCount != 1 || stats.WrongCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AnswerDistribution[1] != 1 || stats.AnswerDistribution[3] != 1 {
		t.Fatalf("unexpected distribution: %v", stats.AnswerDistribution)
	}

	if _, err := s.Reveal(); err != domain.ErrInvalidPhase {
		t.Fatalf("double reveal must fail with ErrInvalidPhase, got %v", err)
	}
}

func TestAdvanceClearsCurrentAnswers(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SubmitAnswer("c1", 1)

	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(s.currentAnswers) != 0 {
		t.Fatalf("advance must clear current answers, got %d", len(s.currentAnswers))
	}
	// The same player can answer again on the new question.
	if events := s.SubmitAnswer("c1", 2); !hasEvent(events, EventAnswerReceived) {
		t.Fatalf("expected fresh submission to be accepted, got %+v", events)
	}
}

func TestRestartFromAnyPhase(t *testing.T) {
	for _, setup := range []func(s *Session){
		func(s *Session) {}, // lobby
		func(s *Session) { s.Start(testQuestions()) },
		func(s *Session) { s.Start(testQuestions()); s.Reveal() },
		func(s *Session) {
			s.Start(testQuestions()[:1])
			s.Advance()
		},
	} {
		s, _ := newTestSession()
		if _, err := s.Join("c1", "Alice", ""); err != nil {
			t.Fatalf("join: %v", err)
		}
		setup(s)

		events := s.Restart()
		if !hasEvent(events, EventGameRestarted) {
			t.Fatalf("expected gameRestarted, got %+v", events)
		}
		if s.Phase() != domain.PhaseLobby {
			t.Fatalf("expected lobby after restart, got %s", s.Phase())
		}
		if len(s.players) != 0 || len(s.currentAnswers) != 0 || len(s.questions) != 0 {
			t.Fatalf("restart must clear players, answers and questions")
		}
	}
}

func TestLeaveRemovesPendingAnswer(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Join("c1", "Alice", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SubmitAnswer("c1", 1)

	events := s.Leave("c1")
	payload := findEvent(t, events, EventUpdatePlayers).Payload.(UpdatePlayersPayload)
	if payload.Count != 0 {
		t.Fatalf("expected empty roster, got %+v", payload)
	}
	if len(s.currentAnswers) != 0 {
		t.Fatalf("leave must drop the pending answer")
	}

	if events := s.Leave("unknown"); len(events) != 0 {
		t.Fatalf("leaving an unknown connection must be silent, got %+v", events)
	}
}

func TestTickGenerationGuard(t *testing.T) {
	s, fc := newTestSession()
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}
	gen := s.TimerGen()

	fc.Advance(time.Second)
	events, done := s.Tick(gen)
	if done {
		t.Fatalf("live tick must not stop the timer")
	}
	payload := findEvent(t, events, EventTimerUpdate).Payload.(TimerUpdatePayload)
	if payload.TimeLeft != 29 {
		t.Fatalf("expected 29s left, got %d", payload.TimeLeft)
	}

	// A tick from a superseded question is inert.
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if events, done := s.Tick(gen); len(events) != 0 || !done {
		t.Fatalf("stale tick must be inert and final, got events=%v done=%v", events, done)
	}

	// The freshly armed generation keeps ticking for the new question.
	if events, done := s.Tick(s.TimerGen()); done || !hasEvent(events, EventTimerUpdate) {
		t.Fatalf("fresh generation must tick, got events=%v done=%v", events, done)
	}
}

func TestTickEmitsTimeUpOnceWindowCloses(t *testing.T) {
	s, fc := newTestSession()
	if _, err := s.Start(testQuestions()); err != nil {
		t.Fatalf("start: %v", err)
	}

	fc.Advance(30 * time.Second)
	events, done := s.Tick(s.TimerGen())
	if !done || !hasEvent(events, EventTimeUp) {
		t.Fatalf("expected final timeUp tick, got events=%v done=%v", events, done)
	}
	// The phase does not change on timeout; reveal remains an admin action.
	if s.Phase() != domain.PhaseAwaiting {
		t.Fatalf("timeout must not auto-advance the phase, got %s", s.Phase())
	}
}

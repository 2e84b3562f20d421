package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"lan-quiz-server/internal/domain"
)

// QuestionSource supplies the ordered question set for a new game. External
// implementations (generated content included) may be slow; the service never
// calls it while holding the session lock.
type QuestionSource interface {
	Select(ctx context.Context, sel domain.Selector) ([]domain.Question, error)
}

// ResultsArchive persists final game results, best effort.
type ResultsArchive interface {
	SaveResults(ctx context.Context, results domain.GameResults) error
}

// Broadcaster delivers outbound events to connected clients.
type Broadcaster interface {
	Deliver(ev Event)
}

// Service owns the single game session and translates player/admin actions
// into state-machine transitions, fanning the resulting events out through
// the broadcaster. All session access is funneled through its mutex.
type Service struct {
	mu      sync.Mutex
	session *Session
	timer   *roundTimer

	source  QuestionSource
	sink    Broadcaster
	archive ResultsArchive
	clock   clockwork.Clock
	log     zerolog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects a clock, used for deterministic tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithArchive enables best-effort persistence of final results.
func WithArchive(archive ResultsArchive) Option {
	return func(s *Service) { s.archive = archive }
}

// WithLogger replaces the default no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithQuestionDuration overrides the per-question answer window.
func WithQuestionDuration(d time.Duration) Option {
	return func(s *Service) { s.session.questionDuration = d }
}

func NewService(source QuestionSource, sink Broadcaster, opts ...Option) *Service {
	s := &Service{
		source: source,
		sink:   sink,
		clock:  clockwork.NewRealClock(),
		log:    zerolog.Nop(),
	}
	s.session = newSession(s.clock, QuestionDuration)
	for _, opt := range opts {
		opt(s)
	}
	// The session must share whatever clock the options installed.
	s.session.clock = s.clock
	return s
}

// Join registers a player connection. Validation failures are reported to the
// requester only.
func (s *Service) Join(connID, name, specialty string) {
	s.mu.Lock()
	events, err := s.session.Join(connID, name, specialty)
	s.mu.Unlock()

	if err != nil {
		s.deliverError(connID, err)
		return
	}
	s.log.Info().Str("conn_id", connID).Str("name", name).Str("specialty", specialty).Msg("player joined")
	s.deliver(events)
}

// Leave drops a connection's player, if it had one, and rebroadcasts the roster.
func (s *Service) Leave(connID string) {
	s.mu.Lock()
	events := s.session.Leave(connID)
	s.mu.Unlock()

	if len(events) > 0 {
		s.log.Info().Str("conn_id", connID).Msg("player left")
	}
	s.deliver(events)
}

// AdminJoin sends the full state snapshot to a newly connected admin. Group
// membership itself is tracked by the transport.
func (s *Service) AdminJoin(connID string) {
	s.mu.Lock()
	ev := s.session.AdminState(connID)
	s.mu.Unlock()

	s.log.Info().Str("conn_id", connID).Msg("admin connected")
	s.deliver([]Event{ev})
}

// StartGame fetches questions for the selector and starts the game. The
// source runs on the caller's goroutine, outside the session lock, so a slow
// generation path cannot stall timer ticks or answer submissions.
func (s *Service) StartGame(ctx context.Context, connID string, sel domain.Selector) {
	questions, err := s.source.Select(ctx, sel)
	if err != nil {
		s.log.Warn().Err(err).Str("category", sel.Category).Int("count", sel.Count).Msg("question source failed")
		s.deliverError(connID, err)
		return
	}

	s.mu.Lock()
	events, err := s.session.Start(questions)
	s.armIfAwaitingLocked(events)
	s.mu.Unlock()

	if err != nil {
		s.deliverError(connID, err)
		return
	}
	if len(events) > 0 {
		s.log.Info().Int("questions", len(questions)).Str("category", sel.Category).Msg("game started")
	}
	s.deliver(events)
}

// NextQuestion advances the game, ending it after the last question.
func (s *Service) NextQuestion(connID string) {
	s.mu.Lock()
	events, err := s.session.Advance()
	s.armIfAwaitingLocked(events)
	ended := s.session.Phase() == domain.PhaseEnded
	var results domain.GameResults
	if ended && err == nil {
		results = s.session.Results()
	}
	s.mu.Unlock()

	if err != nil {
		s.deliverError(connID, err)
		return
	}
	s.deliver(events)
	if ended {
		s.log.Info().Int("players", len(results.Players)).Msg("game ended")
		s.archiveResults(results)
	}
}

// RevealAnswer closes the current question and publishes the solution.
func (s *Service) RevealAnswer(connID string) {
	s.mu.Lock()
	s.stopTimerLocked()
	events, err := s.session.Reveal()
	s.mu.Unlock()

	if err != nil {
		s.deliverError(connID, err)
		return
	}
	s.deliver(events)
}

// Restart returns to the lobby from any phase, dropping every player.
func (s *Service) Restart(connID string) {
	s.mu.Lock()
	s.stopTimerLocked()
	events := s.session.Restart()
	s.mu.Unlock()

	s.log.Info().Str("conn_id", connID).Msg("game restarted")
	s.deliver(events)
}

// SubmitAnswer records a player's answer for the current question. Invalid or
// duplicate submissions are dropped silently.
func (s *Service) SubmitAnswer(connID string, option int) {
	s.mu.Lock()
	events := s.session.SubmitAnswer(connID, option)
	s.mu.Unlock()

	s.deliver(events)
}

// Results returns the current aggregate snapshot, mainly for diagnostics and
// tests.
func (s *Service) Results() domain.GameResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Results()
}

// armIfAwaitingLocked arms the round timer when the applied command opened a
// new answer window. Callers must hold the mutex.
func (s *Service) armIfAwaitingLocked(events []Event) {
	if len(events) == 0 || s.session.Phase() != domain.PhaseAwaiting {
		return
	}
	s.armTimer(s.session.TimerGen())
}

func (s *Service) deliver(events []Event) {
	for _, ev := range events {
		s.sink.Deliver(ev)
	}
}

func (s *Service) deliverError(connID string, err error) {
	// Flow errors that the protocol tolerates are not worth a client message.
	if errors.Is(err, domain.ErrNotStarted) {
		return
	}
	s.sink.Deliver(toConn(connID, EventError, ErrorPayload{Message: err.Error()}))
}

func (s *Service) archiveResults(results domain.GameResults) {
	if s.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.archive.SaveResults(ctx, results); err != nil {
			s.log.Warn().Err(err).Msg("failed to archive game results")
		}
	}()
}

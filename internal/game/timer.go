package game

import "time"

// roundTimer drives the once-per-second countdown for one question. The
// session's generation counter is the source of truth for staleness: arming a
// new timer bumps the generation, so ticks from a superseded timer are inert
// even if its goroutine has not observed the stop signal yet.
type roundTimer struct {
	stop chan struct{}
}

// armTimer supersedes any running timer and starts ticking for the given
// generation. Callers must hold the service mutex.
func (s *Service) armTimer(gen uint64) {
	s.stopTimerLocked()
	t := &roundTimer{stop: make(chan struct{})}
	s.timer = t
	go s.runTimer(t, gen)
}

// stopTimerLocked signals the current timer goroutine, if any, to exit.
// Callers must hold the service mutex.
func (s *Service) stopTimerLocked() {
	if s.timer != nil {
		close(s.timer.stop)
		s.timer = nil
	}
}

func (s *Service) runTimer(t *roundTimer, gen uint64) {
	ticker := s.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.Chan():
			s.mu.Lock()
			events, done := s.session.Tick(gen)
			s.mu.Unlock()
			s.deliver(events)
			if done {
				return
			}
		}
	}
}

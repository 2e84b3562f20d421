package domain

import "errors"

var (
	// ErrMissingName is returned when a player tries to join without a name.
	ErrMissingName = errors.New("name is required")
	// ErrDuplicateName is returned when the name is already taken by a connected player.
	ErrDuplicateName = errors.New("a player with that name is already in the game")
	// ErrNoQuestionsAvailable indicates the question source produced nothing for the selector.
	ErrNoQuestionsAvailable = errors.New("no questions available")
	// ErrNotStarted indicates a game-flow action before the game was started.
	ErrNotStarted = errors.New("game not started")
	// ErrInvalidPhase indicates an action that is not valid in the current phase.
	ErrInvalidPhase = errors.New("action not valid in current phase")
)

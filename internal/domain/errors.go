package domain

import "errors"

// Rule violations surfaced by engine operations. All are recoverable: the
// failed action leaves game state untouched and the caller may retry or
// choose another action.
var (
	ErrHandFull          = errors.New("hand is at capacity")
	ErrCardNotInHand     = errors.New("card is not in hand")
	ErrTableFull         = errors.New("table is at capacity")
	ErrInvalidTask       = errors.New("task is not active for this player")
	ErrInsufficientClock = errors.New("not enough hours left on the clock")
	ErrWrongPhase        = errors.New("action not valid in current phase")
	ErrGameAlreadyOver   = errors.New("game is already over")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrInvalidTarget     = errors.New("illegal target for this card")
	ErrInvalidHours      = errors.New("allocated hours must be positive")
)

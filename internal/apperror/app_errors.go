package apperror

import "errors"

// Error kinds reported by the engine. Detailed errors below are joined with
// one of these so callers can branch on the kind with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrIllegalMove          = errors.New("illegal move")
)

var (
	ErrBlankPlayerName = errors.New("player name must not be blank")
	ErrMatchStarted    = errors.New("match already started")
	ErrNotInRound      = errors.New("no round in progress")
	ErrInvalidCell     = errors.New("invalid cell")
	ErrCellOccupied    = errors.New("cell is already occupied")
)

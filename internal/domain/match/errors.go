package match

import "errors"

// Sentinel kinds for match engine validation. All are rejected before any
// draw is taken from the stream, so a failed call leaves no trace.
var (
	ErrNoGoalkeeper     = errors.New("lineup has no goalkeeper")
	ErrTooFewPlayers    = errors.New("lineup below minimum size")
	ErrUnknownFormation = errors.New("unknown formation")
	ErrNilStream        = errors.New("nil random stream")
)

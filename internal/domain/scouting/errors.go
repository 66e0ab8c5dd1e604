package scouting

import "errors"

var (
	// ErrUnknownTier is returned when a request names a tier outside the
	// defined ladder.
	ErrUnknownTier = errors.New("scouting: unknown tier")

	// ErrNilTarget is returned when the target player is nil.
	ErrNilTarget = errors.New("scouting: nil target player")

	// ErrNilScout is returned when the scouting squad is nil.
	ErrNilScout = errors.New("scouting: nil scouting squad")

	// ErrInsufficientFunds is returned when the squad cannot cover the
	// tier's fee. Nothing is charged and the cache is untouched.
	ErrInsufficientFunds = errors.New("scouting: insufficient funds")
)

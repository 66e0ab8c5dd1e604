package season

import "errors"

var (
	// ErrWrongPhase is returned when an operation is attempted outside
	// the phase that permits it.
	ErrWrongPhase = errors.New("season: operation not permitted in current phase")

	// ErrDuplicateSquad is returned when a team code registers twice.
	ErrDuplicateSquad = errors.New("season: squad code already registered")

	// ErrRosterTooSmall is returned when a registering squad is below
	// the minimum roster size.
	ErrRosterTooSmall = errors.New("season: roster below minimum size")

	// ErrUnknownTier is returned when registration names a division tier
	// that does not exist.
	ErrUnknownTier = errors.New("season: unknown division tier")

	// ErrTooFewSquads is returned when a division cannot form a schedule.
	ErrTooFewSquads = errors.New("season: division needs at least two squads")

	// ErrSeasonComplete is returned when PlayMatchday is called after the
	// final scheduled matchday.
	ErrSeasonComplete = errors.New("season: all matchdays already played")

	// ErrSeasonIncomplete is returned when settlement is requested with
	// unplayed matchdays remaining.
	ErrSeasonIncomplete = errors.New("season: unplayed matchdays remain")

	// ErrUnknownSquad is returned for lookups of unregistered team codes.
	ErrUnknownSquad = errors.New("season: unknown squad code")

	// ErrNilSquad is returned when registration is handed a nil squad.
	ErrNilSquad = errors.New("season: nil squad")
)

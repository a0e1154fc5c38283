package flood

import "errors"

var (
	// ErrInvalidOrigin aborts a run whose origin resolves to no grid tile or space map
	ErrInvalidOrigin = errors.New("flood: invalid origin")

	// ErrUnknownChannel aborts a run on a channel missing from the engine's table
	ErrUnknownChannel = errors.New("flood: unknown channel")

	// ErrDuplicateChannel rejects an engine configured with two channels sharing an id
	ErrDuplicateChannel = errors.New("flood: duplicate channel id")
)

package play

import "errors"

var (
	// ErrNoMove indicates the current shape has no legal placement; the
	// game is over.
	ErrNoMove = errors.New("play: no legal placement")
	// ErrRejected indicates the grid refused a move the brain recommended.
	ErrRejected = errors.New("play: placement rejected")
	// ErrNotReady indicates a Game is missing its grid, brain or picker.
	ErrNotReady = errors.New("play: game not configured")
)

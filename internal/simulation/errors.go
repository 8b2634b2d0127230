package simulation

import (
	"errors"

	"collision-sim/internal/collision"
)

var (
	// ErrInvalidState is returned when an operation is called outside the
	// lifecycle state it requires.
	ErrInvalidState = errors.New("invalid simulator state")
	// ErrNullReference is returned when a required collaborator is missing.
	ErrNullReference = errors.New("required collaborator is nil")
	// ErrResourceExhausted is returned when the event queue or the per-step
	// event budget is exhausted.
	ErrResourceExhausted = errors.New("event resources exhausted")
	// ErrEmpty is returned by Pop on an empty queue.
	ErrEmpty = errors.New("event queue is empty")
	// ErrFieldInit is returned when a field cannot populate its bodies.
	ErrFieldInit = errors.New("field initialization failed")
	// ErrCollisionCheckFailed is returned by numerically degenerate
	// time-of-impact solves.
	ErrCollisionCheckFailed = collision.ErrCollisionCheckFailed
)

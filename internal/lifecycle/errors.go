package lifecycle

import "errors"

var (
	// ErrNoContainer indicates the mount point is missing from the host.
	ErrNoContainer = errors.New("lifecycle: container not found")

	// ErrTransitionInProgress indicates a re-entrant Initialize or Dispose.
	ErrTransitionInProgress = errors.New("lifecycle: transition in progress")

	// ErrDisposed indicates an operation on a torn-down instance.
	ErrDisposed = errors.New("lifecycle: disposed")
)

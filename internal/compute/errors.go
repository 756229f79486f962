package compute

import "errors"

var (
	// ErrContextLost indicates the graphics context went away under the backend.
	ErrContextLost = errors.New("compute: graphics context lost")

	// ErrNotInitialized indicates a draw or resize on a backend that was
	// never initialized or has been cleaned up.
	ErrNotInitialized = errors.New("compute: backend not initialized")

	// ErrUnavailable indicates the requested backend cannot run here.
	ErrUnavailable = errors.New("compute: backend unavailable")
)

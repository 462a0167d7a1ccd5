package worker

import "errors"

// Sentinel errors for worker operations. These enable reliable error
// classification using errors.Is().

var (
	// ErrBackendUnavailable indicates the renderer backend failed to
	// initialize. Fatal to this pipeline instance; not retried.
	ErrBackendUnavailable = errors.New("renderer backend unavailable")

	// ErrWorkerStopped indicates a call reached a painter whose goroutine
	// has already exited.
	ErrWorkerStopped = errors.New("presentation worker stopped")

	// ErrAlreadyStarted indicates Start was called on a running painter.
	ErrAlreadyStarted = errors.New("presentation worker already started")
)

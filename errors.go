package framepresent

import "errors"

// Sentinel errors for pipeline lifecycle operations. These enable
// reliable error classification using errors.Is().

var (
	// ErrAlreadyDrawing indicates StartDrawing was called on a display
	// that is already running a pipeline instance.
	ErrAlreadyDrawing = errors.New("display is already drawing")

	// ErrNilProducer indicates StartDrawing was called without a frame
	// source.
	ErrNilProducer = errors.New("producer cannot be nil")

	// ErrNilBackend indicates construction without a renderer backend.
	ErrNilBackend = errors.New("renderer backend cannot be nil")

	// ErrNilSurface indicates construction without a display surface.
	ErrNilSurface = errors.New("display surface cannot be nil")
)

package worker

import (
	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/coresync"
)

// RenderConfig carries the presentation settings read by the painter
// before each draw. It is mutated only through painter tasks, never
// shared mutable state.
type RenderConfig struct {
	// Width and Height are the current target surface dimensions.
	Width  int
	Height int

	// LockAspectRatio letterboxes the frame instead of stretching it.
	LockAspectRatio bool

	// LockIntegerScaling restricts upscaling to whole-number factors.
	LockIntegerScaling bool

	// Filter selects bilinear filtering; false selects point sampling.
	Filter bool
}

// Backend is the renderer that rasterizes posted frames to the current
// surface. Implementations are only ever called from the painter
// goroutine while it owns the rendering context, so they need no internal
// locking for those calls.
type Backend interface {
	// Init prepares the backend on the painter goroutine. An error here is
	// fatal to the pipeline instance.
	Init() error
	// Deinit releases backend resources.
	Deinit()
	// SetDimensions declares the producer's native frame dimensions.
	SetDimensions(width, height int)
	// Resized declares the current output surface dimensions.
	Resized(width, height int)
	// Configure applies presentation policy ahead of subsequent draws.
	Configure(cfg RenderConfig)
	// PostFrame uploads one frame's pixels. The buffer is recycled as soon
	// as PostFrame returns; implementations must copy what they keep.
	PostFrame(frame *buffer.Buffer)
	// DrawFrame composes the most recently posted frame.
	DrawFrame()
	// Clear blanks the output.
	Clear()
}

// ShaderStage describes an optional post-processing stage applied between
// DrawFrame and presentation.
type ShaderStage struct {
	Name   string
	Passes []ShaderPass
}

// ShaderPass is a single vertex/fragment program pair of a stage.
type ShaderPass struct {
	Vertex   string
	Fragment string
}

// ShaderCapable is implemented by backends that support post-processing
// stages. Backends without the capability silently ignore stage requests.
type ShaderCapable interface {
	AttachShaderStage(stage ShaderStage) error
	DetachShaderStage()
}

// Surface is the window-system surface the painter presents to. The
// rendering context is a single-owner resource: MakeCurrent binds it to
// the calling goroutine and DoneCurrent releases it, and ownership only
// ever changes at start/stop.
type Surface interface {
	MakeCurrent() error
	DoneCurrent()
	SwapBuffers()
}

// OverlayFunc composes a transient overlay layer (messages, OSD) after the
// frame draw. It runs on the painter goroutine with the given output
// dimensions.
type OverlayFunc func(width, height int)

// Producer is the frame source the pipeline presents for.
type Producer interface {
	// FrameDimensions returns the producer's current native frame size.
	// Queried on context binding and after a producer-driven reset.
	FrameDimensions() (width, height int)
	// Sync returns the frame handshake, or nil if the producer does not
	// participate in synchronized delivery.
	Sync() *coresync.Sync
}

// SyncPolicy selects how the painter consults the producer handshake
// before rendering.
type SyncPolicy uint8

const (
	// SyncAuto waits for the producer's announcement while the queue holds
	// only the frame in hand and renders immediately once a backlog has
	// built up behind it.
	SyncAuto SyncPolicy = iota
	// SyncWaitProducer always defers to the handshake; nothing renders
	// without an announced frame.
	SyncWaitProducer
	// SyncImmediate renders whenever frames are queued, ignoring the
	// handshake for the render decision.
	SyncImmediate
)

// String returns the policy name as used in configuration documents.
func (p SyncPolicy) String() string {
	switch p {
	case SyncWaitProducer:
		return "wait"
	case SyncImmediate:
		return "immediate"
	default:
		return "auto"
	}
}

package framepresent

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/coresync"
	"github.com/opd-ai/framepresent/worker"
)

// Producer is the frame source the pipeline presents for. See
// worker.Producer for the contract.
type Producer = worker.Producer

// Stats combines painter and queue counters for one pipeline instance.
type Stats = worker.Stats

// Display is the lifecycle controller of the presentation pipeline. It
// owns goroutine affinity for the worker and the rendering context,
// coordinates start/stop/pause transitions through the producer interrupt
// scope, and relays configuration changes to the worker.
//
// One Display serves any number of consecutive pipeline instances: each
// StartDrawing creates a fresh worker, and StopDrawing tears it down and
// reclaims the rendering context.
type Display struct {
	log *logrus.Entry

	backend worker.Backend
	surface worker.Surface
	opts    *Options
	overlay worker.OverlayFunc

	mu       sync.Mutex
	painter  *worker.Painter
	producer Producer
	drawing  bool

	// Sticky presentation settings, reapplied to every new instance.
	width, height int
	aspectLocked  bool
	integerScaled bool
	filtered      bool
	shader        *worker.ShaderStage

	lastStats Stats
}

// New creates a Display over the given renderer backend and display
// surface.
func New(backend worker.Backend, surface worker.Surface, opts *Options) (*Display, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if surface == nil {
		return nil, ErrNilSurface
	}
	if opts == nil {
		opts = NewOptions()
	}

	id := uuid.NewString()
	d := &Display{
		log: logrus.WithFields(logrus.Fields{
			"component": "display",
			"id":        id,
		}),
		backend: backend,
		surface: surface,
		opts:    opts,
	}
	d.log.WithFields(logrus.Fields{
		"pool_size":     opts.PoolSize,
		"swap_interval": opts.SwapInterval.String(),
	}).Info("Display created")
	return d, nil
}

// SetOverlay installs the overlay composition hook applied to every
// pipeline instance. Takes effect on the next StartDrawing.
func (d *Display) SetOverlay(fn worker.OverlayFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlay = fn
}

// IsDrawing reports whether a pipeline instance is running.
func (d *Display) IsDrawing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drawing
}

// StartDrawing binds the producer, moves the rendering context to a fresh
// worker goroutine, applies the current presentation settings, and starts
// drawing. Backend initialization failure surfaces here, once, as
// worker.ErrBackendUnavailable.
func (d *Display) StartDrawing(p Producer) error {
	if p == nil {
		return ErrNilProducer
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawing {
		return ErrAlreadyDrawing
	}

	painter := worker.NewPainter(worker.Config{
		Queue:    buffer.New(d.opts.PoolSize, d.opts.MaxFrameBytes),
		Backend:  d.backend,
		Surface:  d.surface,
		Interval: d.opts.SwapInterval,
		Policy:   d.opts.SyncPolicy,
		ID:       uuid.NewString(),
	})
	painter.BindProducer(p)
	painter.SetOverlay(d.overlay)

	go painter.Run()
	if err := painter.Start(); err != nil {
		return fmt.Errorf("starting presentation worker: %w", err)
	}

	// Reapply sticky settings so the new instance matches the last one.
	painter.SetLockAspectRatio(d.aspectLocked)
	painter.SetLockIntegerScaling(d.integerScaled)
	painter.SetFilter(d.filtered)
	if d.width > 0 && d.height > 0 {
		if err := painter.Resize(d.width, d.height); err != nil {
			d.log.WithField("error", err.Error()).Warn("Applying initial size failed")
		}
	}
	if d.shader != nil {
		if err := painter.SetShaderStage(*d.shader); err != nil {
			d.log.WithField("error", err.Error()).Warn("Applying shader stage failed")
		}
	}

	d.painter = painter
	d.producer = p
	d.drawing = true
	d.log.Info("Drawing started")
	return nil
}

// StopDrawing tears the pipeline down: the producer is interrupted for
// the duration of the handshake, the worker drains into one final
// present, and the rendering context returns to the caller. Idempotent.
func (d *Display) StopDrawing() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.drawing {
		return nil
	}

	in := coresync.Interrupt(d.producer.Sync())
	defer in.Release()

	if err := d.painter.Stop(); err != nil {
		return fmt.Errorf("stopping presentation worker: %w", err)
	}
	d.lastStats = d.painter.Stats()
	d.painter = nil
	d.producer = nil
	d.drawing = false
	d.log.Info("Drawing stopped")
	return nil
}

// PauseDrawing suspends composition without releasing any resources.
// Queued frames keep recycling under the drop policy while paused.
func (d *Display) PauseDrawing() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.drawing {
		return nil
	}
	in := coresync.Interrupt(d.producer.Sync())
	defer in.Release()
	return d.painter.Pause()
}

// UnpauseDrawing resumes composition.
func (d *Display) UnpauseDrawing() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.drawing {
		return nil
	}
	in := coresync.Interrupt(d.producer.Sync())
	defer in.Release()
	return d.painter.Unpause()
}

// PostFrame delivers one completed frame to the pipeline. A nil pixels
// slice means "no new frame" and enqueues a skip marker. Asynchronous;
// never blocks the producer beyond one frame copy. Frames posted while no
// pipeline is running are dropped silently.
func (d *Display) PostFrame(pixels []byte, width, height int) {
	d.mu.Lock()
	painter := d.painter
	d.mu.Unlock()
	if painter == nil {
		return
	}
	painter.Enqueue(pixels, width, height)
	painter.ScheduleDraw()
}

// ForceDraw recomposes the current frame outside the producer flow, e.g.
// after a configuration change while the producer is paused.
func (d *Display) ForceDraw() {
	d.mu.Lock()
	painter := d.painter
	d.mu.Unlock()
	if painter != nil {
		painter.ForceDraw()
	}
}

// Resize updates the output surface dimensions. When the pipeline is
// suspended the displayed image is recomposed immediately.
func (d *Display) Resize(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
	if !d.drawing {
		return nil
	}
	return d.painter.Resize(width, height)
}

// ResizeContext re-queries the producer's frame dimensions, wrapped in an
// interrupt scope. Called after a producer-driven reset.
func (d *Display) ResizeContext() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.drawing {
		return nil
	}
	in := coresync.Interrupt(d.producer.Sync())
	defer in.Release()
	return d.painter.ResizeContext()
}

// LockAspectRatio toggles aspect-ratio letterboxing. Idempotent.
func (d *Display) LockAspectRatio(lock bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aspectLocked = lock
	if d.drawing {
		d.painter.SetLockAspectRatio(lock)
	}
}

// LockIntegerScaling toggles integer-only upscaling. Idempotent.
func (d *Display) LockIntegerScaling(lock bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.integerScaled = lock
	if d.drawing {
		d.painter.SetLockIntegerScaling(lock)
	}
}

// Filter toggles bilinear filtering. Idempotent.
func (d *Display) Filter(filter bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filtered = filter
	if d.drawing {
		d.painter.SetFilter(filter)
	}
}

// SetShaderStage attaches a post-processing stage. Backends without
// shader support ignore it.
func (d *Display) SetShaderStage(stage worker.ShaderStage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shader = &stage
	if !d.drawing {
		return nil
	}
	return d.painter.SetShaderStage(stage)
}

// ClearShaderStage detaches the post-processing stage.
func (d *Display) ClearShaderStage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shader = nil
	if d.drawing {
		d.painter.ClearShaderStage()
	}
}

// Stats returns counters for the running pipeline instance, or the final
// counters of the last one after StopDrawing.
func (d *Display) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.painter != nil {
		return d.painter.Stats()
	}
	return d.lastStats
}

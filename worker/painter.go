package worker

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/coresync"
)

// DefaultSwapInterval bounds the maximum presentation rate to ~60 Hz.
const DefaultSwapInterval = 16 * time.Millisecond

// task is a unit of work executed on the painter goroutine. Synchronous
// callers block on done; fire-and-forget tasks leave it nil.
type task struct {
	fn   func()
	done chan struct{}
}

// Stats is a snapshot of painter operational counters.
type Stats struct {
	// State is the worker state at snapshot time.
	State State
	// Presents counts frames actually swapped to the display surface.
	Presents uint64
	// Draws counts frame compositions, paced or forced.
	Draws uint64
	// ForcedDraws counts controller-requested redraws.
	ForcedDraws uint64
	// DeferredDraws counts draws postponed because a previous frame's
	// present had not yet released the producer handshake.
	DeferredDraws uint64
	// Uptime is the time elapsed since the worker started drawing, zero
	// before the first successful Start.
	Uptime time.Duration
	// Queue is the frame queue snapshot.
	Queue buffer.Stats
}

// Config assembles a Painter.
type Config struct {
	Queue    *buffer.Queue
	Backend  Backend
	Surface  Surface
	Interval time.Duration // zero selects DefaultSwapInterval
	Policy   SyncPolicy
	Time     TimeProvider // nil selects the system clock
	ID       string       // pipeline instance id for log correlation
}

// Painter is the presentation worker. Create with NewPainter, run its loop
// with Run on a dedicated goroutine, then drive it through the exported
// methods from the controller.
//
// Methods documented as blocking wait for the painter goroutine to execute
// the request; the rest return immediately.
type Painter struct {
	log *logrus.Entry

	queue   *buffer.Queue
	backend Backend
	surface Surface

	producer Producer
	sync     *coresync.Sync

	cfg     RenderConfig
	policy  SyncPolicy
	shader  *ShaderStage
	overlay OverlayFunc

	interval time.Duration
	tp       TimeProvider

	tasks     chan task
	drawLatch chan struct{}
	exited    chan struct{}

	// Painter-goroutine-only state.
	timer        *time.Timer
	timerArmed   bool
	pendingSwap  bool
	needsRelease bool

	state   atomic.Uint32
	started atomic.Int64 // unix nanos of the last successful start

	presents atomic.Uint64
	draws    atomic.Uint64
	forced   atomic.Uint64
	deferred atomic.Uint64
}

// NewPainter creates a painter in StateIdle.
func NewPainter(cfg Config) *Painter {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSwapInterval
	}
	p := &Painter{
		log: logrus.WithFields(logrus.Fields{
			"component": "painter",
			"id":        cfg.ID,
		}),
		queue:     cfg.Queue,
		backend:   cfg.Backend,
		surface:   cfg.Surface,
		policy:    cfg.Policy,
		interval:  interval,
		tp:        getTimeProvider(cfg.Time),
		tasks:     make(chan task, 32),
		drawLatch: make(chan struct{}, 1),
		exited:    make(chan struct{}),
	}
	p.state.Store(uint32(StateIdle))
	return p
}

// BindProducer attaches the frame source. Must be called before Start.
func (p *Painter) BindProducer(prod Producer) {
	p.producer = prod
	if prod != nil {
		p.sync = prod.Sync()
	}
}

// SetOverlay installs the overlay composition hook. Must be called before
// Start.
func (p *Painter) SetOverlay(fn OverlayFunc) {
	p.overlay = fn
}

// State returns the current worker state.
func (p *Painter) State() State {
	return State(p.state.Load())
}

// Stats returns a snapshot of painter and queue counters.
func (p *Painter) Stats() Stats {
	return Stats{
		State:         p.State(),
		Presents:      p.presents.Load(),
		Draws:         p.draws.Load(),
		ForcedDraws:   p.forced.Load(),
		DeferredDraws: p.deferred.Load(),
		Uptime:        p.uptime(),
		Queue:         p.queue.Stats(),
	}
}

// uptime returns the time since the last successful start, zero if the
// painter never started.
func (p *Painter) uptime() time.Duration {
	started := p.started.Load()
	if started == 0 {
		return 0
	}
	return p.tp.Now().Sub(time.Unix(0, started))
}

// Run executes the painter loop. It must be called on a dedicated
// goroutine and returns after a Stop task completes or a Start task fails.
func (p *Painter) Run() {
	defer close(p.exited)

	p.timer = p.tp.NewTimer(p.interval)
	if !p.timer.Stop() {
		select {
		case <-p.timer.C:
		default:
		}
	}

	for {
		select {
		case t := <-p.tasks:
			t.fn()
			if t.done != nil {
				close(t.done)
			}
			if p.State() == StateStopped {
				return
			}
		case <-p.drawLatch:
			p.draw()
		case <-p.timer.C:
			p.timerArmed = false
			p.onPacingExpired()
		}
	}
}

// do submits fn and blocks until the painter goroutine has executed it.
func (p *Painter) do(fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case p.tasks <- t:
	case <-p.exited:
		return ErrWorkerStopped
	}
	select {
	case <-t.done:
		return nil
	case <-p.exited:
		// The loop may have exited right after running our task.
		select {
		case <-t.done:
			return nil
		default:
			return ErrWorkerStopped
		}
	}
}

// post submits fn without waiting for completion.
func (p *Painter) post(fn func()) {
	select {
	case p.tasks <- task{fn: fn}:
	case <-p.exited:
	}
}

// Enqueue copies one producer frame into the recycling queue. A nil pixels
// slice enqueues a skip marker. Never blocks beyond one frame copy.
func (p *Painter) Enqueue(pixels []byte, width, height int) {
	p.queue.Enqueue(pixels, width, height)
}

// ScheduleDraw requests a draw cycle. Requests are coalesced: scheduling
// while one is outstanding is a no-op.
func (p *Painter) ScheduleDraw() {
	select {
	case p.drawLatch <- struct{}{}:
	default:
	}
}

// Start acquires the rendering context on the painter goroutine,
// initializes the backend, and enables drawing. Blocking. A failed start
// terminates the painter goroutine and reports ErrBackendUnavailable.
func (p *Painter) Start() error {
	var err error
	if derr := p.do(func() { err = p.start() }); derr != nil {
		return derr
	}
	return err
}

// Stop drains pending frames into one final present, releases the
// rendering context, and terminates the painter goroutine. Blocking and
// idempotent.
func (p *Painter) Stop() error {
	if err := p.do(p.stop); err != nil && !errors.Is(err, ErrWorkerStopped) {
		return err
	}
	return nil
}

// Pause suspends draws. Queued frames keep recycling under the drop
// policy. Blocking.
func (p *Painter) Pause() error {
	return p.do(func() {
		if p.State() == StateActive {
			p.state.Store(uint32(StatePaused))
		}
	})
}

// Unpause resumes draws. Blocking.
func (p *Painter) Unpause() error {
	return p.do(func() {
		if p.State() == StatePaused {
			p.state.Store(uint32(StateActive))
		}
	})
}

// Resize updates the target surface dimensions. Blocking. When drawing is
// suspended the frame is recomposed immediately so the new size is visible
// without waiting for the producer.
func (p *Painter) Resize(width, height int) error {
	return p.do(func() {
		p.cfg.Width = width
		p.cfg.Height = height
		p.backend.Configure(p.cfg)
		p.redrawIfSuspended()
	})
}

// ResizeContext re-queries the producer's frame dimensions and applies
// them to the backend. Blocking. Called after a producer-driven reset.
func (p *Painter) ResizeContext() error {
	return p.do(func() {
		if p.producer == nil {
			return
		}
		w, h := p.producer.FrameDimensions()
		p.backend.SetDimensions(w, h)
	})
}

// SetLockAspectRatio toggles aspect-ratio letterboxing. Asynchronous.
func (p *Painter) SetLockAspectRatio(lock bool) {
	p.post(func() {
		p.cfg.LockAspectRatio = lock
		p.backend.Configure(p.cfg)
		p.redrawIfSuspended()
	})
}

// SetLockIntegerScaling toggles integer-only upscaling. Asynchronous.
func (p *Painter) SetLockIntegerScaling(lock bool) {
	p.post(func() {
		p.cfg.LockIntegerScaling = lock
		p.backend.Configure(p.cfg)
		p.redrawIfSuspended()
	})
}

// SetFilter toggles bilinear filtering. Asynchronous.
func (p *Painter) SetFilter(filter bool) {
	p.post(func() {
		p.cfg.Filter = filter
		p.backend.Configure(p.cfg)
		p.redrawIfSuspended()
	})
}

// SetShaderStage attaches a post-processing stage, replacing any current
// one. Blocking. Backends without shader support ignore the request.
func (p *Painter) SetShaderStage(stage ShaderStage) error {
	var err error
	if derr := p.do(func() { err = p.attachShader(stage) }); derr != nil {
		return derr
	}
	return err
}

// ClearShaderStage detaches the post-processing stage. Asynchronous.
func (p *Painter) ClearShaderStage() {
	p.post(func() {
		p.shader = nil
		if sc, ok := p.backend.(ShaderCapable); ok {
			sc.DetachShaderStage()
		}
	})
}

// ForceDraw recomposes and schedules a present outside the normal frame
// flow, regardless of pause state. Asynchronous.
func (p *Painter) ForceDraw() {
	p.post(func() {
		if st := p.State(); st != StateActive && st != StatePaused && st != StateStarted {
			return
		}
		p.forced.Add(1)
		p.forceDraw()
	})
}

// --- painter-goroutine internals ---

func (p *Painter) start() error {
	if p.State() != StateIdle {
		return ErrAlreadyStarted
	}
	if err := p.surface.MakeCurrent(); err != nil {
		p.abortStart()
		return fmt.Errorf("%w: acquiring surface context: %v", ErrBackendUnavailable, err)
	}
	if err := p.backend.Init(); err != nil {
		p.surface.DoneCurrent()
		p.abortStart()
		p.log.WithField("error", err.Error()).Error("Renderer backend failed to initialize")
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	p.state.Store(uint32(StateStarted))
	p.started.Store(p.tp.Now().UnixNano())
	if p.sync != nil {
		p.sync.Attach()
	}

	p.backend.Configure(p.cfg)
	if p.producer != nil {
		w, h := p.producer.FrameDimensions()
		p.backend.SetDimensions(w, h)
	}
	if p.shader != nil {
		if err := p.attachShader(*p.shader); err != nil {
			p.log.WithField("error", err.Error()).Warn("Configured shader stage rejected by backend")
		}
	}

	p.state.Store(uint32(StateActive))
	p.log.WithFields(logrus.Fields{
		"interval": p.interval.String(),
		"policy":   p.policy.String(),
	}).Info("Presentation worker started")
	return nil
}

// abortStart marks a failed start terminal. The handshake is detached so
// a producer bound to this instance can never park on it.
func (p *Painter) abortStart() {
	p.state.Store(uint32(StateStopped))
	if p.sync != nil {
		p.sync.Detach()
	}
}

func (p *Painter) stop() {
	if p.State() == StateStopped {
		return
	}
	p.state.Store(uint32(StateStopped))

	p.queue.DrainAll(p.backend.PostFrame)
	p.backend.Clear()
	if p.pendingSwap {
		p.present()
	}
	p.timer.Stop()
	p.timerArmed = false
	if p.sync != nil {
		if p.needsRelease {
			p.sync.SignalFrameEnd()
			p.needsRelease = false
		}
		// No worker remains to release the handshake; a producer posting
		// after this point must not park.
		p.sync.Detach()
	}
	p.backend.Deinit()
	p.surface.DoneCurrent()
	p.sync = nil
	p.producer = nil

	p.log.WithFields(logrus.Fields{
		"presents": p.presents.Load(),
		"drops":    p.queue.Stats().Drops,
		"uptime":   p.uptime().String(),
	}).Info("Presentation worker stopped")
}

// draw runs one paced composition cycle.
func (p *Painter) draw() {
	if p.State() != StateActive {
		return
	}
	if p.queue.Pending() == 0 {
		return
	}
	if p.needsRelease {
		// The previous frame's present has not released the producer yet;
		// composing a second frame now would race it. The pacing expiry
		// reschedules the draw.
		p.deferred.Add(1)
		return
	}

	announced := p.sync == nil || p.sync.WaitFrameStart()
	var proceed bool
	switch p.policy {
	case SyncImmediate:
		proceed = true
	case SyncWaitProducer:
		proceed = announced
	default: // SyncAuto: wait when in step, catch up once a backlog exists
		proceed = announced || p.queue.Pending() > 1
	}
	if !proceed {
		// Hold the frame for the producer's announcement; the pacing
		// expiry rechecks while the queue is non-empty.
		p.armSwap()
		return
	}

	p.queue.DequeueForRender(p.backend.PostFrame)
	p.forceDraw()
	p.draws.Add(1)

	if p.sync != nil {
		if p.sync.FrameWait() {
			// Hold the producer until this frame's present.
			p.needsRelease = true
		} else {
			p.sync.SignalFrameEnd()
		}
	}
}

// forceDraw composes the current frame and arms the pacing timer.
func (p *Painter) forceDraw() {
	p.performDraw()
	p.armSwap()
}

func (p *Painter) performDraw() {
	p.backend.Resized(p.cfg.Width, p.cfg.Height)
	p.backend.DrawFrame()
	if p.overlay != nil {
		p.overlay(p.cfg.Width, p.cfg.Height)
	}
	p.pendingSwap = true
}

func (p *Painter) armSwap() {
	if !p.timerArmed {
		p.timer.Reset(p.interval)
		p.timerArmed = true
	}
}

// onPacingExpired presents any pending swap, releases the producer, and
// either schedules an immediate catch-up draw or rearms for the next
// interval.
func (p *Painter) onPacingExpired() {
	if p.pendingSwap {
		p.present()
	}
	if p.needsRelease && p.sync != nil {
		p.sync.SignalFrameEnd()
		p.needsRelease = false
	}
	if p.queue.Pending() > 0 {
		p.ScheduleDraw()
	} else {
		p.timer.Reset(p.interval)
		p.timerArmed = true
	}
}

func (p *Painter) present() {
	p.surface.SwapBuffers()
	if err := p.surface.MakeCurrent(); err != nil {
		p.log.WithField("error", err.Error()).Error("Surface lost after swap")
	}
	p.pendingSwap = false
	p.presents.Add(1)
}

// redrawIfSuspended recomposes immediately when no frame is in flight so
// configuration changes are visible without a new producer frame.
func (p *Painter) redrawIfSuspended() {
	if p.State() == StatePaused {
		p.forceDraw()
	}
}

func (p *Painter) attachShader(stage ShaderStage) error {
	sc, ok := p.backend.(ShaderCapable)
	if !ok {
		return nil
	}
	sc.DetachShaderStage()
	if err := sc.AttachShaderStage(stage); err != nil {
		return fmt.Errorf("attaching shader stage %q: %w", stage.Name, err)
	}
	p.shader = &stage
	return nil
}

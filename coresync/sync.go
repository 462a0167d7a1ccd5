package coresync

import "sync"

// Sync coordinates one frame's lifetime between a producer and the
// presentation worker. The zero value is not usable; create with New.
type Sync struct {
	mu   sync.Mutex
	cond *sync.Cond

	framePending bool
	frameWait    bool
	interrupts   int
	detached     bool
}

// New creates a handshake with frame waiting enabled.
func New() *Sync {
	s := &Sync{frameWait: true}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// SetFrameWait enables or disables producer blocking. Disabling wakes a
// producer currently blocked in PostFrame.
func (s *Sync) SetFrameWait(wait bool) {
	s.mu.Lock()
	s.frameWait = wait
	s.cond.Broadcast()
	s.mu.Unlock()
}

// FrameWait reports whether the producer blocks until the worker releases
// each frame.
func (s *Sync) FrameWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameWait
}

// PostFrame is called by the producer after emitting a frame. It parks
// while an interrupter is held, announces the frame, and, when frame
// waiting is enabled, blocks until the worker calls SignalFrameEnd.
//
// With no worker attached PostFrame returns immediately without
// announcing anything; the frame is simply dropped.
func (s *Sync) PostFrame() {
	s.mu.Lock()
	for s.interrupts > 0 && !s.detached {
		s.cond.Wait()
	}
	if s.detached {
		s.mu.Unlock()
		return
	}
	s.framePending = true
	s.cond.Broadcast()
	for s.framePending && s.frameWait && s.interrupts == 0 && !s.detached {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// WaitFrameStart reports whether the producer has announced a frame that
// the worker has not yet released. It never blocks; the blocking half of
// the handshake lives on the producer side.
func (s *Sync) WaitFrameStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framePending
}

// SignalFrameEnd releases the producer after the worker has consumed or
// skipped the announced frame. Safe to call with no frame pending.
func (s *Sync) SignalFrameEnd() {
	s.mu.Lock()
	s.framePending = false
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Detach marks the worker gone. Any producer blocked in the handshake is
// woken, the pending announcement is withdrawn, and subsequent PostFrame
// calls return without blocking until Attach is called again.
func (s *Sync) Detach() {
	s.mu.Lock()
	s.detached = true
	s.framePending = false
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Attach marks a worker present again, restoring normal handshake
// behavior after a Detach.
func (s *Sync) Attach() {
	s.mu.Lock()
	s.detached = false
	s.mu.Unlock()
}

// Package coresync implements the two-phase handshake that synchronizes a
// real-time frame producer with the presentation worker, and the
// interrupter guard used to pause the producer around lifecycle
// transitions.
//
// # Handshake
//
// The producer announces each completed frame with PostFrame. When frame
// waiting is enabled the producer then blocks until the worker releases it
// with SignalFrameEnd, bounding producer-side frame buildup to the fixed
// buffer pool. With frame waiting disabled PostFrame never blocks and the
// worker skips or presents frames at its own pace.
//
//	// Producer goroutine
//	for running {
//	    emitFrame()
//	    sync.PostFrame() // may block until the worker catches up
//	}
//
//	// Worker goroutine
//	if sync.WaitFrameStart() {
//	    render()
//	}
//	sync.SignalFrameEnd()
//
// # Interrupter
//
// Controller operations that must not race a frame emission (stop, pause,
// reset) acquire an Interrupter for their duration:
//
//	in := coresync.Interrupt(sync)
//	defer in.Release()
//
// While any interrupter is held, PostFrame parks the producer before
// announcing a frame, and a producer already blocked in the handshake is
// woken so teardown cannot deadlock. Interrupters nest; the producer
// resumes when the last one is released.
//
// # Detach
//
// When the worker goes away for good it calls Detach. A detached
// handshake never blocks: PostFrame returns immediately and the frame is
// dropped, so a producer that keeps emitting after the pipeline stops
// cannot park on a release that will never come. Attach restores the
// handshake when a new worker binds.
package coresync

// Package framepresent implements a frame presentation pipeline that
// hands completed video frames from a real-time producer to a dedicated
// presentation worker goroutine, which paces, composes, and delivers them
// to a display subsystem without blocking the producer longer than one
// frame copy.
//
// The pipeline governs when and via which buffer a frame reaches the
// renderer, and how buffer memory is recycled so the steady state
// allocates nothing. What gets rendered is the business of the renderer
// backend, which is an external collaborator behind the worker.Backend
// interface.
//
// Example:
//
//	display, err := framepresent.New(backend, surface, framepresent.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := display.StartDrawing(producer); err != nil {
//	    log.Fatal(err) // e.g. renderer backend unavailable
//	}
//	defer display.StopDrawing()
//
//	// Producer side, once per emitted frame:
//	display.PostFrame(pixels, width, height)
//
// Frames posted faster than the pacing interval are skipped by recycling
// the oldest unpresented buffer; frames posted slower are presented as
// they arrive. Memory stays bounded by the fixed buffer pool either way.
//
// All Display methods are safe for concurrent use. Lifecycle transitions
// (stop, pause, unpause, reset) are wrapped in a producer interrupt scope
// so they never race an in-progress frame emission.
package framepresent

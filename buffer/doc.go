// Package buffer implements the recycling frame queue that carries pixel
// data from a real-time producer to the presentation worker.
//
// The queue owns a fixed set of pre-allocated buffers. Each buffer is in
// exactly one of three places at any time: the free pool, the pending
// queue, or in flight at the renderer backend. Memory is bounded for the
// lifetime of the queue; when the producer outruns the consumer, the
// oldest unpresented frame is reclaimed and overwritten rather than
// growing the queue.
//
// Drops are expected and healthy under backpressure. They are tracked as
// a counter for diagnostics, never surfaced as errors.
//
// Example:
//
//	q := buffer.New(2, 1024*2048*4)
//
//	// Producer side: copy a frame in, or push a skip marker.
//	q.Enqueue(pixels, 240, 160)
//	q.Enqueue(nil, 0, 0) // "no new frame" marker, no copy
//
//	// Worker side: hand the oldest frame to the backend.
//	q.DequeueForRender(func(b *buffer.Buffer) {
//	    backend.PostFrame(b)
//	})
//
// All methods are safe for concurrent use. The internal lock is held only
// for pointer bookkeeping plus at most one frame copy, never across a call
// that can block on another goroutine.
package buffer

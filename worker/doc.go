// Package worker implements the presentation worker that composes queued
// frames and paces their delivery to the display surface.
//
// The Painter owns the rendering context for the lifetime of a pipeline
// instance. All drawing happens on a single dedicated goroutine started
// with Run; other goroutines talk to it through tasks. Lifecycle and
// configuration calls are synchronous request/response tasks, while frame
// delivery and draw scheduling are fire-and-forget so the producer is
// never stalled by the worker.
//
// # Draw and present cycle
//
// A draw dequeues one frame, hands it to the renderer backend, composes it
// under the current render configuration, and marks a swap pending. The
// pacing timer bounds how often pending swaps reach the display surface:
// on expiry the pending frame is presented, the producer handshake is
// released, and either an immediate redraw is scheduled (backlog exists)
// or the timer rearms for the next interval. Emission rate and
// presentation rate are thereby fully decoupled; a fast producer gets
// natural frame skipping, a slow one a steady display.
//
// # States
//
//	StateIdle    → Start() → StateStarted → StateActive
//	StateActive  ⇄ Pause()/Unpause() ⇄ StatePaused
//	any          → Stop()  → StateStopped (terminal)
//
// Stop drains the queue into a single final present, clears the backend,
// releases the rendering context back to the controller, and is
// idempotent. Scheduling work on a stopped painter is a contract
// violation by the controller, not a recoverable runtime condition.
package worker

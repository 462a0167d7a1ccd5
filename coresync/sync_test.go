package coresync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// postAsync runs PostFrame in a goroutine and returns a channel closed when
// it returns.
func postAsync(s *Sync) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		s.PostFrame()
		close(done)
	}()
	return done
}

func assertBlocked(t *testing.T, done <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-done:
		t.Fatal(msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func assertReleased(t *testing.T, done <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal(msg)
	}
}

func TestPostFrameBlocksUntilSignalled(t *testing.T) {
	s := New()

	done := postAsync(s)
	assertBlocked(t, done, "producer must block while frame wait is enabled")

	assert.True(t, s.WaitFrameStart(), "frame should be pending")
	s.SignalFrameEnd()
	assertReleased(t, done, "SignalFrameEnd must release the producer")
	assert.False(t, s.WaitFrameStart())
}

func TestPostFrameNonBlockingWithoutFrameWait(t *testing.T) {
	s := New()
	s.SetFrameWait(false)

	done := postAsync(s)
	assertReleased(t, done, "producer must not block with frame wait disabled")
	assert.True(t, s.WaitFrameStart(), "frame still announced")
}

func TestDisablingFrameWaitReleasesBlockedProducer(t *testing.T) {
	s := New()

	done := postAsync(s)
	assertBlocked(t, done, "producer should be parked")

	s.SetFrameWait(false)
	assertReleased(t, done, "disabling frame wait must wake the producer")
}

func TestInterruptReleasesBlockedProducer(t *testing.T) {
	s := New()

	done := postAsync(s)
	assertBlocked(t, done, "producer should be parked")

	in := Interrupt(s)
	assertReleased(t, done, "interrupt must not leave the producer parked")

	// While interrupted, a new PostFrame parks before announcing.
	s.SignalFrameEnd()
	done2 := postAsync(s)
	assertBlocked(t, done2, "producer must be paused inside an interrupt scope")
	assert.False(t, s.WaitFrameStart(), "no frame announced while paused")

	in.Release()
	s.SetFrameWait(false)
	assertReleased(t, done2, "release must resume the producer")
}

func TestInterruptersNest(t *testing.T) {
	s := New()
	s.SetFrameWait(false)

	outer := Interrupt(s)
	inner := Interrupt(s)

	done := postAsync(s)
	assertBlocked(t, done, "paused under two scopes")

	inner.Release()
	assertBlocked(t, done, "still paused under the outer scope")

	outer.Release()
	assertReleased(t, done, "resumes when the last scope is released")
}

func TestInterrupterReleaseIdempotent(t *testing.T) {
	s := New()
	s.SetFrameWait(false)

	in := Interrupt(s)
	in.Release()
	in.Release() // must not unbalance the interrupt count

	done := postAsync(s)
	assertReleased(t, done, "producer must run after balanced release")
}

func TestInterruptNilSync(t *testing.T) {
	in := Interrupt(nil)
	in.Release() // no-op, no panic
}

func TestDetachReleasesBlockedProducer(t *testing.T) {
	s := New()

	done := postAsync(s)
	assertBlocked(t, done, "producer should be parked")

	s.Detach()
	assertReleased(t, done, "detach must release a blocked producer")
	assert.False(t, s.WaitFrameStart(), "detach withdraws the announcement")
}

func TestDetachedSyncNeverBlocks(t *testing.T) {
	s := New()
	s.Detach()

	done := postAsync(s)
	assertReleased(t, done, "detached handshake must not block the producer")
	assert.False(t, s.WaitFrameStart(), "detached posts announce nothing")

	// Detached producers skip the interrupt park as well.
	in := Interrupt(s)
	done2 := postAsync(s)
	assertReleased(t, done2, "interrupt must not park a detached producer")
	in.Release()

	s.Attach()
	done3 := postAsync(s)
	assertBlocked(t, done3, "reattached handshake blocks again")
	s.SignalFrameEnd()
	assertReleased(t, done3, "normal release after reattach")
}

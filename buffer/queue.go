package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Buffer is a fixed-capacity pixel buffer owned by a Queue.
//
// A buffer belongs to exactly one of the queue's free pool, the pending
// queue, or the renderer backend at any time. Callers receiving a *Buffer
// through DequeueForRender or DrainAll must not retain it past the
// callback; the queue reclaims it immediately afterwards.
type Buffer struct {
	data   []byte
	length int
	width  int
	height int
}

// Bytes returns the valid pixel data of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.length]
}

// Width returns the frame width in pixels recorded at enqueue time.
func (b *Buffer) Width() int { return b.width }

// Height returns the frame height in pixels recorded at enqueue time.
func (b *Buffer) Height() int { return b.height }

// Cap returns the fixed capacity of the buffer in bytes.
func (b *Buffer) Cap() int { return cap(b.data) }

// Stats is a snapshot of queue operational state.
type Stats struct {
	// Drops counts frames reclaimed before presentation because the free
	// pool was exhausted. Non-zero values are normal when the producer
	// outruns the pacing interval.
	Drops uint64

	// Enqueued counts all Enqueue calls, including skip markers.
	Enqueued uint64

	// Pending is the current depth of the pending queue, markers included.
	Pending int

	// Free is the current size of the free pool.
	Free int

	// PoolSize is the fixed number of buffers owned by the queue.
	PoolSize int
}

// Queue is the recycling frame queue shared by the producer and the
// presentation worker.
//
// All methods are safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	free    []*Buffer
	pending []*Buffer // nil entries are skip markers

	drops    atomic.Uint64
	enqueued atomic.Uint64

	poolSize int
}

// New creates a queue owning poolSize buffers of bufferBytes capacity each.
// The buffer count never changes after construction.
func New(poolSize, bufferBytes int) *Queue {
	if poolSize < 1 {
		poolSize = 1
	}
	q := &Queue{poolSize: poolSize}
	for i := 0; i < poolSize; i++ {
		q.free = append(q.free, &Buffer{data: make([]byte, bufferBytes)})
	}
	return q
}

// Enqueue copies src into a recycled buffer and appends it to the pending
// queue. A nil src appends a skip marker instead: no buffer is consumed and
// nothing is copied.
//
// When the free pool is empty the oldest pending frame is reclaimed and
// overwritten. The displaced frame is counted as a drop.
func (q *Queue) Enqueue(src []byte, width, height int) {
	q.enqueued.Add(1)

	q.mu.Lock()
	defer q.mu.Unlock()

	if src == nil {
		q.pending = append(q.pending, nil)
		return
	}

	dst := q.takeFreeLocked()
	if dst == nil {
		dst = q.reclaimOldestLocked()
	}
	if dst == nil {
		// Every buffer is in flight at the backend. Cannot happen through
		// Queue's own methods, but dropping the frame beats growing.
		q.drops.Add(1)
		return
	}

	n := len(src)
	if n > cap(dst.data) {
		n = cap(dst.data)
	}
	dst.data = dst.data[:cap(dst.data)]
	copy(dst.data[:n], src)
	dst.length = n
	dst.width = width
	dst.height = height
	q.pending = append(q.pending, dst)
}

// DequeueForRender pops the oldest pending entry. A real frame is handed to
// post and then returned to the free pool; a skip marker is consumed
// silently without invoking post. Reports whether an entry was consumed.
func (q *Queue) DequeueForRender(post func(*Buffer)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return false
	}
	buf := q.pending[0]
	q.pending = q.pending[1:]
	if buf != nil {
		if post != nil {
			post(buf)
		}
		q.free = append(q.free, buf)
	}
	return true
}

// DrainAll empties the pending queue, returning every buffered frame to the
// free pool. Only the newest frame is handed to post, collapsing any
// backlog into a single up-to-date present.
func (q *Queue) DrainAll(post func(*Buffer)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var last *Buffer
	for len(q.pending) > 0 {
		buf := q.pending[0]
		q.pending = q.pending[1:]
		if buf != nil {
			q.free = append(q.free, buf)
			last = buf
		}
	}
	if last != nil && post != nil {
		post(last)
	}
}

// Pending returns the current pending queue depth, markers included.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Stats returns a snapshot of queue counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	pending := len(q.pending)
	free := len(q.free)
	q.mu.Unlock()

	return Stats{
		Drops:    q.drops.Load(),
		Enqueued: q.enqueued.Load(),
		Pending:  pending,
		Free:     free,
		PoolSize: q.poolSize,
	}
}

// takeFreeLocked removes and returns a buffer from the free pool, or nil.
func (q *Queue) takeFreeLocked() *Buffer {
	if len(q.free) == 0 {
		return nil
	}
	buf := q.free[len(q.free)-1]
	q.free = q.free[:len(q.free)-1]
	return buf
}

// reclaimOldestLocked removes the oldest real frame from the pending queue
// for reuse, counting it as a drop. Skip markers ahead of it are preserved.
func (q *Queue) reclaimOldestLocked() *Buffer {
	for i, buf := range q.pending {
		if buf == nil {
			continue
		}
		q.pending = append(q.pending[:i], q.pending[i+1:]...)
		q.drops.Add(1)
		logrus.WithFields(logrus.Fields{
			"function": "reclaimOldestLocked",
			"drops":    q.drops.Load(),
		}).Debug("Free pool exhausted, reclaiming oldest pending frame")
		return buf
	}
	return nil
}

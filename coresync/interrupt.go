package coresync

// Interrupter pauses the producer for the duration of a controller
// operation. Acquiring one wakes a producer blocked in the handshake and
// keeps subsequent PostFrame calls parked until Release.
//
// Interrupters nest: the producer resumes only after every outstanding
// interrupter has been released. Release is idempotent, so it is safe to
// defer it on every exit path.
type Interrupter struct {
	s        *Sync
	released bool
}

// Interrupt acquires an interrupter on s. A nil Sync yields an inert
// interrupter, letting callers wrap operations before a producer is bound.
func Interrupt(s *Sync) *Interrupter {
	if s == nil {
		return &Interrupter{released: true}
	}
	s.mu.Lock()
	s.interrupts++
	s.cond.Broadcast()
	s.mu.Unlock()
	return &Interrupter{s: s}
}

// Release ends the interrupt scope. The producer resumes once no
// interrupters remain outstanding.
func (i *Interrupter) Release() {
	if i.released {
		return
	}
	i.released = true
	i.s.mu.Lock()
	i.s.interrupts--
	i.s.cond.Broadcast()
	i.s.mu.Unlock()
}

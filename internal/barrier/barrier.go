// Package barrier implements the reusable cyclic barrier the scheduler uses
// to line up every watcher with the coordinator twice per cycle (spec.md
// §4.D): once before the watchers list and diff, once after every watcher
// has pushed its events and before the coordinator applies the batch. No third-party cyclic-barrier primitive appears
// anywhere in the retrieved corpus, so this is built directly on
// sync.Mutex/sync.Cond, the same primitives the corpus's own synchronization
// code (e.g. rclone's lib/pacer) is built on.
package barrier

import "sync"

// Barrier is a reusable rendezvous point for exactly n parties. Once all n
// have called Wait, every call returns and the barrier resets for its next
// use automatically — the same barrier value is awaited every cycle for the
// life of the engine.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	waiting int
	gen     uint64
	stopped bool
}

// New returns a Barrier for n parties (spec.md sizes this N_watchers + 1, one
// seat per watcher plus one for the coordinator).
func New(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until n parties have called Wait for the current generation,
// then releases all of them together and advances to the next generation. It
// returns false instead if Stop is called while this or an earlier call is
// blocked, so a shutdown that lands mid-rendezvous — after some parties have
// passed their own Stopped check but before all n have arrived here — still
// wakes everyone already waiting rather than leaving them parked forever.
func (b *Barrier) Wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return false
	}

	gen := b.gen
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return true
	}
	for gen == b.gen && !b.stopped {
		b.cond.Wait()
	}
	return !b.stopped
}

// Stop releases every party currently blocked in Wait, permanently: every
// Wait call from here on returns false immediately instead of rendezvousing.
// Safe to call more than once and from any goroutine.
func (b *Barrier) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.cond.Broadcast()
}

// Package engine owns all of the mutable state the synchronization core
// needs, replacing what spec.md §9 calls out as "process-wide mutable
// globals" (the location list, event queue, LastEventTable, and barriers) in
// the original: a single Engine value is built once by the entry point and
// passed by reference to every watcher and the coordinator.
package engine

import (
	"sync"

	"github.com/bogdan-spilevoi/meshsync/internal/barrier"
	"github.com/bogdan-spilevoi/meshsync/internal/location"
	"github.com/bogdan-spilevoi/meshsync/internal/metrics"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

// queueDepth is the event queue's buffer size. spec.md §5 allows "unbounded
// or generously bounded"; this is generous for any realistic single cycle's
// worth of file changes without risking unbounded memory growth.
const queueDepth = 4096

// Engine holds the locations being synchronized, the resolver that dispatch
// to their backends, the shared event queue, the LastEventTable, and the two
// cycle barriers. It is safe for concurrent use by exactly N_watchers + 1
// goroutines: one per location plus the coordinator.
type Engine struct {
	Locations []model.Location
	Resolver  *location.Resolver
	Queue     chan model.Event

	LastEvents *model.LastEventTable

	StartBarrier *barrier.Barrier
	EndBarrier   *barrier.Barrier

	Metrics *metrics.Metrics

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New builds an Engine for the given locations. n+1 seats are reserved on
// each barrier: one per location's watcher, plus one for the coordinator.
func New(locations []model.Location, resolver *location.Resolver, m *metrics.Metrics) *Engine {
	n := len(locations)
	return &Engine{
		Locations:    locations,
		Resolver:     resolver,
		Queue:        make(chan model.Event, queueDepth),
		LastEvents:   model.NewLastEventTable(),
		StartBarrier: barrier.New(n + 1),
		EndBarrier:   barrier.New(n + 1),
		Metrics:      m,
		stopCh:       make(chan struct{}),
	}
}

// Stop requests graceful shutdown. Per spec.md §4.D, a stop takes effect
// between cycles: any cycle already underway is allowed to finish, including
// all in-flight adapter I/O. It also releases both barriers, so a party
// already blocked in Wait when Stop is called — the narrow race where some
// parties passed their Stopped check before Stop fired and others didn't —
// unblocks immediately instead of waiting for arrivals that will never come.
// Safe to call more than once and from any goroutine.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
		e.StartBarrier.Stop()
		e.EndBarrier.Stop()
	})
}

// Stopped reports whether Stop has been called. Watchers and the coordinator
// check this only at the top of the cycle loop, before waiting on the start
// barrier, so every party bails out together and none is left waiting alone
// on a barrier nobody else will reach.
func (e *Engine) Stopped() bool {
	select {
	case <-e.stopCh:
		return true
	default:
		return false
	}
}

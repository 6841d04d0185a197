// Package watcher implements the per-location polling loop spec.md §4.C
// calls the Watcher Task: wait for the cycle-start barrier, list the
// location, diff against the previous snapshot, push surviving events to
// the shared queue, then wait for the cycle-end barrier. A Watcher never
// reads, writes, or deletes; it only lists, and only reads the
// LastEventTable, never writes it.
package watcher

import (
	"context"

	"github.com/bogdan-spilevoi/meshsync/internal/diff"
	"github.com/bogdan-spilevoi/meshsync/internal/engine"
	"github.com/bogdan-spilevoi/meshsync/internal/location"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
	"github.com/bogdan-spilevoi/meshsync/internal/rlog"
)

// Watcher polls one location once per cycle.
type Watcher struct {
	Loc     model.Location
	Adapter location.Adapter
	Engine  *engine.Engine

	prev model.Snapshot
}

// New returns a Watcher for loc. The adapter is resolved once at
// construction since a location's Kind never changes over its lifetime.
func New(loc model.Location, adapter location.Adapter, eng *engine.Engine) *Watcher {
	return &Watcher{Loc: loc, Adapter: adapter, Engine: eng}
}

// Run seeds prev from an initial listing (emitting nothing for it, per
// spec.md §4.C) and then runs the cycle loop until the engine is stopped.
// It blocks until the watcher exits; callers typically run it in its own
// goroutine.
func (w *Watcher) Run(ctx context.Context) {
	snap, err := w.Adapter.List(ctx, w.Loc)
	if err != nil {
		rlog.Errorf(w.Loc, "initial list: %v", err)
	}
	w.prev = snap

	for {
		if w.Engine.Stopped() {
			return
		}
		if !w.Engine.StartBarrier.Wait() {
			return
		}

		curr, err := w.Adapter.List(ctx, w.Loc)
		if err != nil {
			rlog.Errorf(w.Loc, "list: %v", err)
		}

		events := diff.Events(w.Loc, w.prev, curr)
		events = diff.SuppressEcho(events, w.Engine.LastEvents)
		for _, ev := range events {
			w.Engine.Queue <- ev
		}
		if w.Engine.Metrics != nil {
			for _, ev := range events {
				w.Engine.Metrics.EventsObserved.WithLabelValues(ev.Kind.String()).Inc()
			}
		}

		w.prev = curr
		if !w.Engine.EndBarrier.Wait() {
			return
		}
	}
}

// Package scheduler implements the barrier-coordinated cycle loop spec.md
// §4.D calls the coordinator half of the protocol: wait at the end barrier
// until every watcher has pushed its events, then drain the event queue once
// per cycle and resolve the batch, fully applying it before arriving at the
// next cycle's start barrier.
package scheduler

import (
	"context"
	"time"

	"github.com/bogdan-spilevoi/meshsync/internal/batch"
	"github.com/bogdan-spilevoi/meshsync/internal/engine"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

// Coordinator drives one Engine's cycle loop. It is the "+1" seat on both of
// the Engine's barriers.
type Coordinator struct {
	Engine *engine.Engine

	// DrainTimeout bounds how long the coordinator waits for the first
	// event of a cycle before concluding the cycle was quiet (spec.md §4.D:
	// "e.g. 1s").
	DrainTimeout time.Duration

	// PollInterval paces the cycle loop: the coordinator sleeps this long
	// between the end barrier of one cycle and the start barrier of the
	// next, so polling locations doesn't spin as fast as the CPU allows.
	PollInterval time.Duration
}

// New returns a Coordinator for eng with the given cycle pacing.
func New(eng *engine.Engine, pollInterval, drainTimeout time.Duration) *Coordinator {
	return &Coordinator{Engine: eng, DrainTimeout: drainTimeout, PollInterval: pollInterval}
}

// Run executes cycles until the engine is stopped. It blocks; callers
// typically run it in its own goroutine alongside the watchers.
func (c *Coordinator) Run(ctx context.Context) {
	first := true
	for {
		if c.Engine.Stopped() {
			return
		}
		if !first {
			select {
			case <-time.After(c.PollInterval):
			case <-ctx.Done():
				return
			}
		}
		first = false

		if !c.Engine.StartBarrier.Wait() {
			return
		}

		// The end barrier releases only once every watcher has listed,
		// diffed, suppressed echoes and pushed its events. The watchers then
		// park on the next start barrier, which cannot release until this
		// coordinator arrives there, so the apply below never overlaps a
		// watcher's List. After a Stop this returns false; the batch drained
		// so far is still applied before the loop exits.
		released := c.Engine.EndBarrier.Wait()

		events := c.drain(ctx)
		if c.Engine.Metrics != nil {
			c.Engine.Metrics.QueueDepth.Set(float64(len(events)))
		}

		// batch.Resolve clears LastEvents itself, right before recording
		// this cycle's winners: every watcher has already consulted the
		// table for its SuppressEcho call by the time Resolve runs, so
		// clearing any earlier (e.g. right after the start barrier) would
		// race the watchers' own diff-and-suppress step.
		batch.Resolve(ctx, c.Engine.Resolver, c.Engine.Locations, events, c.Engine.LastEvents, c.Engine.Metrics)

		if c.Engine.Metrics != nil {
			c.Engine.Metrics.CyclesRun.Inc()
		}

		if !released {
			return
		}
	}
}

// drain blocks up to DrainTimeout for the first event of the cycle, then
// empties whatever else is already queued without waiting further, per
// spec.md §4.D/§5.
func (c *Coordinator) drain(ctx context.Context) []model.Event {
	var events []model.Event

	select {
	case ev := <-c.Engine.Queue:
		events = append(events, ev)
	case <-time.After(c.DrainTimeout):
		return events
	case <-ctx.Done():
		return events
	}

	for {
		select {
		case ev := <-c.Engine.Queue:
			events = append(events, ev)
		default:
			return events
		}
	}
}

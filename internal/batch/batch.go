// Package batch implements the per-cycle event aggregation and conflict
// resolution spec.md §4.E calls the Event Batcher & Conflict Resolver: group
// by relative path, pick a last-writer-wins winner, and apply it everywhere
// it isn't already current.
package batch

import (
	"context"
	"sort"

	"github.com/bogdan-spilevoi/meshsync/internal/location"
	"github.com/bogdan-spilevoi/meshsync/internal/metrics"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
	"github.com/bogdan-spilevoi/meshsync/internal/rlog"
)

// Resolve groups events by RelPath, resolves each group to a winner, and
// issues the write/delete calls needed to bring every other location in
// line. lastEvents is cleared here, right before the new winners are
// recorded, rather than by the caller at the top of the cycle: by the time
// Resolve runs, the end barrier gating guarantees every watcher has already
// consulted the table for this cycle's SuppressEcho call, so this is the
// first point in the cycle where clearing it is race-free.
func Resolve(ctx context.Context, resolver *location.Resolver, locations []model.Location, events []model.Event, lastEvents *model.LastEventTable, m *metrics.Metrics) {
	groups := make(map[model.RelPath][]model.Event)
	for _, ev := range events {
		groups[ev.RelPath] = append(groups[ev.RelPath], ev)
	}

	lastEvents.Clear()

	for rel, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].MTime < group[j].MTime
		})
		winner := group[len(group)-1]

		if isPureDelete(group) {
			applyDelete(ctx, resolver, locations, rel, m)
		} else {
			// A delete can win on mtime in a mixed group; its location no
			// longer holds the file, so the bytes come from the latest
			// non-delete event instead.
			source := winner
			for i := len(group) - 1; i >= 0; i-- {
				if group[i].Kind != model.Deleted {
					source = group[i]
					break
				}
			}
			applyWrite(ctx, resolver, locations, rel, source, m)
		}

		lastEvents.Record(winner)
	}
}

// isPureDelete reports whether every event in the group is a deletion: the
// only case spec.md §4.E treats as a delete rather than a resurrecting
// write, even when the last-arriving event (by mtime) was itself a delete.
func isPureDelete(group []model.Event) bool {
	for _, ev := range group {
		if ev.Kind != model.Deleted {
			return false
		}
	}
	return true
}

func applyDelete(ctx context.Context, resolver *location.Resolver, locations []model.Location, rel model.RelPath, m *metrics.Metrics) {
	for _, loc := range locations {
		adapter, err := resolver.For(loc)
		if err != nil {
			rlog.Errorf(loc, "resolve adapter for delete %q: %v", rel, err)
			continue
		}
		if err := adapter.Delete(ctx, loc, rel); err != nil {
			rlog.Errorf(loc, "delete %q: %v", rel, err)
			if m != nil {
				m.AdapterErrors.WithLabelValues("delete").Inc()
			}
			continue
		}
		if m != nil {
			m.DeletesApplied.Inc()
		}
	}
}

func applyWrite(ctx context.Context, resolver *location.Resolver, locations []model.Location, rel model.RelPath, winner model.Event, m *metrics.Metrics) {
	winnerAdapter, err := resolver.For(winner.Location)
	if err != nil {
		rlog.Errorf(winner.Location, "resolve winner adapter %q: %v", rel, err)
		return
	}
	data, err := winnerAdapter.Read(ctx, winner.Location, rel)
	if err != nil {
		// NotFound or IOError: bubble up, omit the operation this cycle.
		rlog.Errorf(winner.Location, "read winner %q: %v", rel, err)
		if m != nil {
			m.AdapterErrors.WithLabelValues("read").Inc()
		}
		return
	}

	for _, loc := range locations {
		if loc == winner.Location {
			continue
		}
		adapter, err := resolver.For(loc)
		if err != nil {
			rlog.Errorf(loc, "resolve adapter for write %q: %v", rel, err)
			continue
		}
		if err := adapter.Write(ctx, loc, rel, data); err != nil {
			rlog.Errorf(loc, "write %q: %v", rel, err)
			if m != nil {
				m.AdapterErrors.WithLabelValues("write").Inc()
			}
			continue
		}
		if m != nil {
			m.WritesApplied.Inc()
		}
	}
}

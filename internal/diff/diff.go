// Package diff computes the events that turn one snapshot into another, the
// pure comparison spec.md §4.B calls the Snapshot Differ. It never touches a
// backend itself; a watcher supplies the two snapshots it already listed.
package diff

import (
	"time"

	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

// Events compares prev against curr and returns the events needed to explain
// the transition: updated for a path present in both whose mtime moved
// forward, deleted for a path that dropped out of curr, created for a path
// new to curr. A path whose mtime did not increase produces no event. Order
// is not significant; callers that care sort downstream (the batcher sorts
// by mtime).
func Events(loc model.Location, prev, curr model.Snapshot) []model.Event {
	var events []model.Event

	for rel, prevEntry := range prev {
		curEntry, stillThere := curr[rel]
		if !stillThere {
			continue
		}
		if curEntry.MTime > prevEntry.MTime {
			events = append(events, model.Event{
				Kind:     model.Updated,
				Location: loc,
				RelPath:  rel,
				MTime:    curEntry.MTime,
			})
		}
	}

	observed := float64(time.Now().UnixNano()) / 1e9
	for rel := range prev {
		if _, stillThere := curr[rel]; stillThere {
			continue
		}
		events = append(events, model.Event{
			Kind:     model.Deleted,
			Location: loc,
			RelPath:  rel,
			MTime:    observed,
		})
	}

	for rel, curEntry := range curr {
		if _, existed := prev[rel]; existed {
			continue
		}
		events = append(events, model.Event{
			Kind:     model.Created,
			Location: loc,
			RelPath:  rel,
			MTime:    curEntry.MTime,
		})
	}

	return events
}

// SuppressEcho drops any event whose kind matches the LastEventTable's
// recorded entry for the same path: the table holds what the coordinator
// just acted on, so a matching kind means the watcher is reporting the
// coordinator's own apply back to it, per spec.md §4.B.
func SuppressEcho(events []model.Event, table *model.LastEventTable) []model.Event {
	if table == nil {
		return events
	}
	kept := events[:0:0]
	for _, ev := range events {
		if last, ok := table.Lookup(ev.RelPath); ok && last.Kind == ev.Kind {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

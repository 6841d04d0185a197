package model

import "sync"

// EventKind is the kind of change a watcher observed.
type EventKind int

// The three event kinds the differ can emit.
const (
	Created EventKind = iota
	Updated
	Deleted
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one observed change to a RelPath at a Location. MTime for a
// Deleted event is the wall-clock time the deletion was observed, not a file
// mtime (there is no file left to stat).
type Event struct {
	Kind     EventKind
	Location Location
	RelPath  RelPath
	MTime    float64
}

// LastEventTable records, per RelPath, the most recent Event the coordinator
// acted on. Watchers consult it (read-only) to suppress re-emitting the echo
// of the coordinator's own apply phase. batch.Resolve is the sole writer: it
// clears the table and repopulates it with the new cycle's winners in the
// same pass, right before recording each winner, per the single-writer
// discipline in spec.md §5. That point is race-free only because the end
// barrier guarantees every watcher has already consulted the table for its
// SuppressEcho call by the time Resolve runs.
type LastEventTable struct {
	mu    sync.RWMutex
	table map[RelPath]Event
}

// NewLastEventTable returns an empty table.
func NewLastEventTable() *LastEventTable {
	return &LastEventTable{table: make(map[RelPath]Event)}
}

// Lookup returns the last acted-on event for rel, if any.
func (t *LastEventTable) Lookup(rel RelPath) (Event, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ev, ok := t.table[rel]
	return ev, ok
}

// Clear empties the table. Called by batch.Resolve, immediately before it
// starts recording the current cycle's winners — not by the caller at the
// top of the cycle, since that would race a watcher still running its own
// List-then-diff pipeline for this cycle.
func (t *LastEventTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.table = make(map[RelPath]Event)
}

// Record sets the winner for rel. Called by batch.Resolve for each group,
// right after Clear and before the next cycle's start barrier releases.
func (t *LastEventTable) Record(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.table[ev.RelPath] = ev
}

// Len reports how many paths the table currently tracks. The protocol itself
// does not use it.
func (t *LastEventTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.table)
}

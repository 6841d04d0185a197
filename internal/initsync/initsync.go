// Package initsync implements the one-shot pre-cycle reconciliation spec.md
// §4.F calls the Initial Synchronizer: fold every location's listing into a
// single latest-wins map, then bring every location up to date with it.
// Deletions are never propagated here — an absent file is assumed missing,
// not deleted, since there is no prior cycle to have observed its removal.
package initsync

import (
	"context"

	"github.com/bogdan-spilevoi/meshsync/internal/location"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
	"github.com/bogdan-spilevoi/meshsync/internal/rlog"
)

// latestEntry is the winning (location, mtime) pair for one relative path
// across every location's initial listing.
type latestEntry struct {
	loc   model.Location
	mtime float64
}

// Run lists every location, computes the latest copy of each relative path
// across all of them, and writes-or-overwrites it into any location that is
// missing it or holds an older copy.
func Run(ctx context.Context, resolver *location.Resolver, locations []model.Location) error {
	listings := make(map[model.Location]model.Snapshot, len(locations))
	latest := make(map[model.RelPath]latestEntry)

	for _, loc := range locations {
		adapter, err := resolver.For(loc)
		if err != nil {
			return err
		}
		snap, err := adapter.List(ctx, loc)
		if err != nil {
			rlog.Errorf(loc, "initial sync list: %v", err)
		}
		listings[loc] = snap

		for rel, entry := range snap {
			if cur, ok := latest[rel]; !ok || entry.MTime > cur.mtime {
				latest[rel] = latestEntry{loc: loc, mtime: entry.MTime}
			}
		}
	}

	for rel, win := range latest {
		winnerAdapter, err := resolver.For(win.loc)
		if err != nil {
			return err
		}

		for _, loc := range locations {
			localEntry, present := listings[loc][rel]
			if present && localEntry.MTime >= win.mtime {
				continue
			}
			if loc == win.loc {
				continue
			}

			data, err := winnerAdapter.Read(ctx, win.loc, rel)
			if err != nil {
				rlog.Errorf(win.loc, "initial sync read %q: %v", rel, err)
				continue
			}
			adapter, err := resolver.For(loc)
			if err != nil {
				return err
			}
			if err := adapter.Write(ctx, loc, rel, data); err != nil {
				rlog.Errorf(loc, "initial sync write %q: %v", rel, err)
			}
		}
	}

	return nil
}

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

func TestIdenticalSnapshotsEmitNothing(t *testing.T) {
	loc := model.Folder("/a")
	snap := model.Snapshot{
		model.NewRelPath("x.txt"): {Location: loc, MTime: 1000},
	}
	events := Events(loc, snap, snap.Clone())
	assert.Empty(t, events)
}

func TestNewFileIsCreated(t *testing.T) {
	loc := model.Folder("/a")
	prev := model.Snapshot{}
	curr := model.Snapshot{
		model.NewRelPath("new.txt"): {Location: loc, MTime: 500},
	}
	events := Events(loc, prev, curr)
	require.Len(t, events, 1)
	assert.Equal(t, model.Created, events[0].Kind)
	assert.Equal(t, model.NewRelPath("new.txt"), events[0].RelPath)
}

func TestModifiedFileIsUpdated(t *testing.T) {
	loc := model.Folder("/a")
	prev := model.Snapshot{model.NewRelPath("f.txt"): {Location: loc, MTime: 100}}
	curr := model.Snapshot{model.NewRelPath("f.txt"): {Location: loc, MTime: 200}}
	events := Events(loc, prev, curr)
	require.Len(t, events, 1)
	assert.Equal(t, model.Updated, events[0].Kind)
}

func TestOlderMtimeEmitsNothing(t *testing.T) {
	loc := model.Folder("/a")
	prev := model.Snapshot{model.NewRelPath("f.txt"): {Location: loc, MTime: 200}}
	curr := model.Snapshot{model.NewRelPath("f.txt"): {Location: loc, MTime: 100}}
	events := Events(loc, prev, curr)
	assert.Empty(t, events)
}

func TestRemovedFileIsDeleted(t *testing.T) {
	loc := model.Folder("/a")
	prev := model.Snapshot{model.NewRelPath("gone.txt"): {Location: loc, MTime: 100}}
	curr := model.Snapshot{}
	events := Events(loc, prev, curr)
	require.Len(t, events, 1)
	assert.Equal(t, model.Deleted, events[0].Kind)
}

func TestSuppressEchoDropsMatchingKind(t *testing.T) {
	loc := model.Folder("/a")
	rel := model.NewRelPath("f.txt")
	events := []model.Event{{Kind: model.Updated, Location: loc, RelPath: rel, MTime: 200}}

	table := model.NewLastEventTable()
	table.Record(model.Event{Kind: model.Updated, Location: loc, RelPath: rel, MTime: 200})

	kept := SuppressEcho(events, table)
	assert.Empty(t, kept)
}

func TestSuppressEchoKeepsDifferentKind(t *testing.T) {
	loc := model.Folder("/a")
	rel := model.NewRelPath("f.txt")
	events := []model.Event{{Kind: model.Deleted, Location: loc, RelPath: rel, MTime: 300}}

	table := model.NewLastEventTable()
	table.Record(model.Event{Kind: model.Updated, Location: loc, RelPath: rel, MTime: 200})

	kept := SuppressEcho(events, table)
	require.Len(t, kept, 1)
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationsCompareByValue(t *testing.T) {
	a := Folder("/x")
	b := Folder("/x")
	c := Folder("/y")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, a == b)
}

func TestLocationAsMapKey(t *testing.T) {
	m := map[Location]string{
		Folder("/x"): "one",
		Zip("/y"):    "two",
	}
	assert.Equal(t, "one", m[Folder("/x")])
}

func TestLocationStringHidesPassword(t *testing.T) {
	loc := FTP("host", "user", "secret-password", "/remote")
	assert.NotContains(t, loc.String(), "secret-password")
}

func TestRelPathNormalizesSeparators(t *testing.T) {
	assert.Equal(t, RelPath("a/b/c"), NewRelPath(`a\b\c`))
	assert.Equal(t, RelPath("a/b"), NewRelPath("/a/b"))
}

func TestLastEventTableRecordAndLookup(t *testing.T) {
	table := NewLastEventTable()
	rel := NewRelPath("f.txt")
	_, ok := table.Lookup(rel)
	assert.False(t, ok)

	table.Record(Event{Kind: Updated, RelPath: rel, MTime: 10})
	ev, ok := table.Lookup(rel)
	require.True(t, ok)
	assert.Equal(t, Updated, ev.Kind)

	table.Clear()
	_, ok = table.Lookup(rel)
	assert.False(t, ok)
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	rel := NewRelPath("f.txt")
	orig := Snapshot{rel: {MTime: 1}}
	clone := orig.Clone()
	clone[rel] = SnapshotEntry{MTime: 2}
	assert.Equal(t, float64(1), orig[rel].MTime)
}

package initsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogdan-spilevoi/meshsync/internal/location"
	"github.com/bogdan-spilevoi/meshsync/internal/location/folder"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	ctx := context.Background()
	a := folder.New()
	require.NoError(t, a.Write(ctx, model.Folder(dir), model.NewRelPath(rel), []byte(content)))
}

func TestPropagatesSingleFileToEmptyLocation(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "x.txt", "hello")

	locA := model.Folder(dirA)
	locB := model.Folder(dirB)
	resolver := location.NewResolver(folder.New(), nil, nil)

	require.NoError(t, Run(context.Background(), resolver, []model.Location{locA, locB}))

	data, err := folder.New().Read(context.Background(), locB, model.NewRelPath("x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestNewerMtimeWinsConflict(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "y.txt", "A")
	writeFile(t, dirB, "y.txt", "B")
	// Pin distinct mtimes: two writes this close together can share one
	// timestamp, and Run leaves equal-mtime copies as they are.
	require.NoError(t, os.Chtimes(filepath.Join(dirA, "y.txt"), time.Unix(2000, 0), time.Unix(2000, 0)))
	require.NoError(t, os.Chtimes(filepath.Join(dirB, "y.txt"), time.Unix(3000, 0), time.Unix(3000, 0)))

	locA := model.Folder(dirA)
	locB := model.Folder(dirB)
	resolver := location.NewResolver(folder.New(), nil, nil)
	adapter := folder.New()

	snapA, err := adapter.List(context.Background(), locA)
	require.NoError(t, err)
	snapB, err := adapter.List(context.Background(), locB)
	require.NoError(t, err)

	var winner string
	if snapA[model.NewRelPath("y.txt")].MTime >= snapB[model.NewRelPath("y.txt")].MTime {
		winner = "A"
	} else {
		winner = "B"
	}

	require.NoError(t, Run(context.Background(), resolver, []model.Location{locA, locB}))

	dataA, err := adapter.Read(context.Background(), locA, model.NewRelPath("y.txt"))
	require.NoError(t, err)
	dataB, err := adapter.Read(context.Background(), locB, model.NewRelPath("y.txt"))
	require.NoError(t, err)
	assert.Equal(t, winner, string(dataA))
	assert.Equal(t, winner, string(dataB))
}

func TestDoesNotPropagateDeletions(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirB, "only-in-b.txt", "content")

	locA := model.Folder(dirA)
	locB := model.Folder(dirB)
	resolver := location.NewResolver(folder.New(), nil, nil)

	require.NoError(t, Run(context.Background(), resolver, []model.Location{locA, locB}))

	adapter := folder.New()
	_, err := adapter.Read(context.Background(), locA, model.NewRelPath("only-in-b.txt"))
	require.NoError(t, err) // absence in A is treated as missing, so it gets written, not skipped
}

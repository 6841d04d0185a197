package folder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogdan-spilevoi/meshsync/internal/locerr"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	loc := model.Folder(dir)
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, loc, model.NewRelPath("sub/dir/file.txt"), []byte("hello")))

	data, err := a.Read(ctx, loc, model.NewRelPath("sub/dir/file.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestDeleteThenReadIsNotFound(t *testing.T) {
	dir := t.TempDir()
	loc := model.Folder(dir)
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, loc, model.NewRelPath("x.txt"), []byte("A")))
	require.NoError(t, a.Delete(ctx, loc, model.NewRelPath("x.txt")))

	_, err := a.Read(ctx, loc, model.NewRelPath("x.txt"))
	require.Error(t, err)
	assert.True(t, locerr.IsNotFound(err))
}

func TestDeleteAbsentIsSilent(t *testing.T) {
	dir := t.TempDir()
	loc := model.Folder(dir)
	a := New()
	ctx := context.Background()

	assert.NoError(t, a.Delete(ctx, loc, model.NewRelPath("never-existed.txt")))
}

func TestListFindsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	loc := model.Folder(dir)
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, loc, model.NewRelPath("a.txt"), []byte("1")))
	require.NoError(t, a.Write(ctx, loc, model.NewRelPath("nested/b.txt"), []byte("2")))

	snap, err := a.List(ctx, loc)
	require.NoError(t, err)
	require.Contains(t, snap, model.NewRelPath("a.txt"))
	require.Contains(t, snap, model.NewRelPath("nested/b.txt"))
	assert.Equal(t, loc, snap[model.NewRelPath("a.txt")].Location)
}

func TestListTerminatesOnSymlinkCycle(t *testing.T) {
	dir := t.TempDir()
	loop := filepath.Join(dir, "loop")
	require.NoError(t, os.Symlink(dir, loop))

	loc := model.Folder(dir)
	a := New()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		_, _ = a.List(ctx, loc)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("List did not terminate on a symlink cycle")
	}
}

func TestWriteOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	loc := model.Folder(dir)
	a := New()
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, loc, model.NewRelPath("f.txt"), []byte("first")))
	require.NoError(t, a.Write(ctx, loc, model.NewRelPath("f.txt"), []byte("second, longer content")))

	data, err := a.Read(ctx, loc, model.NewRelPath("f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second, longer content", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, filepath.Ext(e.Name()) == ".tmp", "leftover temp file: %s", e.Name())
	}
}

// Package folder implements location.Adapter over the local filesystem. It
// generalizes rclone's backend/local (stat-based listing, symlink handling,
// mkdir-then-write) down to the four operations this engine needs, adding
// the atomic-write guarantee spec.md §4.A requires of every backend: a
// concurrent List must never observe a truncated intermediate file.
package folder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bogdan-spilevoi/meshsync/internal/locerr"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
	"github.com/bogdan-spilevoi/meshsync/internal/rlog"
)

// Adapter is the folder backend. It is stateless: every call takes the
// location (and so the root path) as a parameter.
type Adapter struct{}

// New returns a folder Adapter.
func New() *Adapter {
	return &Adapter{}
}

// List walks loc.Path recursively and returns every regular file found,
// keyed by its forward-slash path relative to the root. Symlinks to
// directories are followed; a visited-realpath set breaks cycles so a
// symlink loop terminates instead of recursing forever. Symlinks to regular
// files are followed and reported under the name of the link, matching
// rclone's copy_links behaviour.
func (a *Adapter) List(ctx context.Context, loc model.Location) (model.Snapshot, error) {
	snap := make(model.Snapshot)
	visited := make(map[string]struct{})
	err := a.walk(ctx, loc, loc.Path, "", visited, snap)
	return snap, err
}

func (a *Adapter) walk(ctx context.Context, loc model.Location, absDir, relDir string, visited map[string]struct{}, snap model.Snapshot) error {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return fmt.Errorf("folder list %q: %w: %w", absDir, locerr.ErrIO, err)
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := entry.Name()
		absPath := filepath.Join(absDir, name)
		relPath := name
		if relDir != "" {
			relPath = relDir + "/" + name
		}

		info, err := entry.Info()
		if err != nil {
			rlog.Errorf(loc, "stat %q: %v", absPath, err)
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(absPath)
			if err != nil {
				rlog.Errorf(loc, "broken symlink %q: %v", absPath, err)
				continue
			}
			fi, err := os.Stat(resolved)
			if err != nil {
				rlog.Errorf(loc, "stat symlink target %q: %v", resolved, err)
				continue
			}
			if fi.IsDir() {
				if _, seen := visited[resolved]; seen {
					continue // cycle: already descended into this real directory
				}
				visited[resolved] = struct{}{}
				if err := a.walk(ctx, loc, resolved, relPath, visited, snap); err != nil {
					rlog.Errorf(loc, "walk %q: %v", resolved, err)
				}
				continue
			}
			info = fi
		}

		if info.IsDir() {
			if err := a.walk(ctx, loc, absPath, relPath, visited, snap); err != nil {
				rlog.Errorf(loc, "walk %q: %v", absPath, err)
			}
			continue
		}

		snap[model.NewRelPath(relPath)] = model.SnapshotEntry{
			Location: loc,
			MTime:    float64(info.ModTime().UnixNano()) / 1e9,
		}
	}
	return nil
}

// Read returns the full contents of rel under loc.Path.
func (a *Adapter) Read(ctx context.Context, loc model.Location, rel model.RelPath) ([]byte, error) {
	abs := filepath.Join(loc.Path, filepath.FromSlash(rel.String()))
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("folder read %q: %w", rel, locerr.ErrNotFound)
		}
		return nil, fmt.Errorf("folder read %q: %w: %w", rel, locerr.ErrIO, err)
	}
	return data, nil
}

// Write creates rel's parent directories as needed, then overwrites-or-
// creates it atomically: the new content is written to a temp file in the
// same directory and moved into place with os.Rename, which is atomic on
// every platform this engine targets.
func (a *Adapter) Write(ctx context.Context, loc model.Location, rel model.RelPath, data []byte) error {
	abs := filepath.Join(loc.Path, filepath.FromSlash(rel.String()))
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("folder write mkdir %q: %w: %w", dir, locerr.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".meshsync-*.tmp")
	if err != nil {
		return fmt.Errorf("folder write tempfile in %q: %w: %w", dir, locerr.ErrIO, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("folder write %q: %w: %w", rel, locerr.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("folder write close %q: %w: %w", rel, locerr.ErrIO, err)
	}
	if err := os.Rename(tmpPath, abs); err != nil {
		return fmt.Errorf("folder write rename %q: %w: %w", rel, locerr.ErrIO, err)
	}
	return nil
}

// Delete removes rel. It succeeds silently if the file is already absent.
func (a *Adapter) Delete(ctx context.Context, loc model.Location, rel model.RelPath) error {
	abs := filepath.Join(loc.Path, filepath.FromSlash(rel.String()))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("folder delete %q: %w: %w", rel, locerr.ErrIO, err)
	}
	return nil
}

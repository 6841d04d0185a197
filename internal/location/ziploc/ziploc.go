// Package ziploc implements location.Adapter over a single zip archive file,
// generalizing rclone's backend/zip (a thin wrapper that mounts a zip's
// contents as a VFS) down to the four operations this engine needs. Unlike
// rclone's zip backend, which holds one zip.Writer open for the lifetime of
// the mount and flushes it with an atexit hook, every Write and Delete here
// rewrites the whole archive into a sibling temp file and renames it into
// place, so a concurrent List never observes a half-written archive.
package ziploc

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/bogdan-spilevoi/meshsync/internal/locerr"
	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

func init() {
	// Swap the stdlib's DEFLATE implementation for klauspost/compress's,
	// which compresses faster at the same ratio. zip.Deflate is the only
	// method this adapter ever writes.
	zip.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(in io.Reader) io.ReadCloser {
		return flate.NewReadCloser(in)
	})
}

// Adapter is the zip backend. It is stateless: loc.Path names the archive
// file for every call.
type Adapter struct{}

// New returns a zip Adapter.
func New() *Adapter {
	return &Adapter{}
}

// entryRelPath applies the legacy single-leading-component strip: an entry
// name containing a "/" is assumed to carry a root folder from whatever tool
// created the archive (e.g. "myproject/file.txt"), which is dropped so the
// archive's contents line up with the other locations' relative paths.
// An entry with no "/" is used as-is.
func entryRelPath(name string) model.RelPath {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	if idx := strings.Index(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return model.NewRelPath(name)
}

// List opens the archive and returns every non-directory entry.
func (a *Adapter) List(ctx context.Context, loc model.Location) (model.Snapshot, error) {
	zr, err := zip.OpenReader(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("zip list %q: %w: %w", loc.Path, locerr.ErrIO, err)
	}
	defer zr.Close()

	snap := make(model.Snapshot)
	for _, f := range zr.File {
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		default:
		}
		if f.FileInfo().IsDir() {
			continue
		}
		rel := entryRelPath(f.Name)
		if rel == "" {
			continue
		}
		mtime := f.Modified
		if mtime.Location() == time.UTC {
			// Only the MS-DOS date/time fields are present, which archive/zip
			// decodes as UTC; read the same wall-clock value as local time.
			mtime = time.Date(mtime.Year(), mtime.Month(), mtime.Day(),
				mtime.Hour(), mtime.Minute(), mtime.Second(), 0, time.Local)
		}
		snap[rel] = model.SnapshotEntry{
			Location: loc,
			MTime:    float64(mtime.Unix()),
		}
	}
	return snap, nil
}

// Read decompresses and returns the contents of the entry mapping to rel.
func (a *Adapter) Read(ctx context.Context, loc model.Location, rel model.RelPath) ([]byte, error) {
	zr, err := zip.OpenReader(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("zip read %q: %w: %w", loc.Path, locerr.ErrIO, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || entryRelPath(f.Name) != rel {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip read open %q: %w: %w", rel, locerr.ErrIO, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("zip read %q: %w: %w", rel, locerr.ErrIO, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("zip read %q: %w", rel, locerr.ErrNotFound)
}

// Write replaces-or-adds rel. The whole archive is rewritten: every existing
// entry other than rel is recompressed unchanged into a new archive built in
// a temp file beside loc.Path, rel's new content is appended, and the temp
// file is renamed over the original. A rel with no "/" is used directly as
// the entry name. A nested rel is placed under a root folder named after the
// archive file (without its extension), since entryRelPath strips the first
// segment of any name containing "/"; the entry then reads back as rel. An
// existing root prefix in the archive's other entries is not reused (see
// DESIGN.md).
func (a *Adapter) Write(ctx context.Context, loc model.Location, rel model.RelPath, data []byte) error {
	name := rel.String()
	if strings.Contains(name, "/") {
		root := strings.TrimSuffix(filepath.Base(loc.Path), filepath.Ext(loc.Path))
		if root == "" {
			root = "root"
		}
		name = root + "/" + name
	}
	return a.rewrite(loc, rel, func(zw *zip.Writer) error {
		hdr := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

// Delete removes the entry mapping to rel, if present, by rewriting the
// archive without it. It succeeds silently if rel is already absent.
func (a *Adapter) Delete(ctx context.Context, loc model.Location, rel model.RelPath) error {
	return a.rewrite(loc, rel, nil)
}

// rewrite copies every entry of loc.Path except rel into a fresh archive in
// a sibling temp file, optionally lets writeNew add rel's replacement, then
// renames the temp file over loc.Path. Passing a nil writeNew implements
// delete: rel is simply dropped.
func (a *Adapter) rewrite(loc model.Location, rel model.RelPath, writeNew func(*zip.Writer) error) error {
	dir := filepath.Dir(loc.Path)

	zr, err := zip.OpenReader(loc.Path)
	if err != nil {
		return fmt.Errorf("zip rewrite open %q: %w: %w", loc.Path, locerr.ErrIO, err)
	}
	defer zr.Close()

	tmp, err := os.CreateTemp(dir, ".meshsync-*.zip.tmp")
	if err != nil {
		return fmt.Errorf("zip rewrite tempfile in %q: %w: %w", dir, locerr.ErrIO, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	zw := zip.NewWriter(tmp)
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() && entryRelPath(f.Name) == rel {
			continue // superseded by writeNew, or being deleted
		}
		if err := copyEntry(zw, f); err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("zip rewrite copy %q: %w: %w", f.Name, locerr.ErrIO, err)
		}
	}

	if writeNew != nil {
		if err := writeNew(zw); err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("zip rewrite write %q: %w: %w", rel, locerr.ErrIO, err)
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("zip rewrite close archive %q: %w: %w", tmpPath, locerr.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("zip rewrite close tempfile %q: %w: %w", tmpPath, locerr.ErrIO, err)
	}
	zr.Close()

	if err := os.Rename(tmpPath, loc.Path); err != nil {
		return fmt.Errorf("zip rewrite rename %q: %w: %w", loc.Path, locerr.ErrIO, err)
	}
	return nil
}

// copyEntry decompresses f and writes it back out under its original name,
// header and modification time unchanged.
func copyEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return err
	}

	hdr := f.FileHeader
	w, err := zw.CreateHeader(&hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

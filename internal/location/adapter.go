// Package location defines the uniform Location adapter capability set
// (spec.md §4.A) and resolves a model.Location to the backend that
// implements it. The three concrete backends live in the folder, ziploc and
// ftploc subpackages; each is a direct generalization of the matching
// rclone backend (backend/local, backend/zip, backend/ftp) down to the
// list/read/write/delete surface this engine actually needs.
package location

import (
	"context"
	"fmt"

	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

// Adapter is the capability set every backend must implement identically:
// list, read, write, delete over its own substrate. None of the methods may
// panic on a routine backend error; only a misuse of the API (wrong Kind)
// is a programmer error.
type Adapter interface {
	// List returns all regular files reachable under loc, recursively,
	// keyed by forward-slash RelPath. On a partial backend failure it may
	// return a partial snapshot alongside a non-nil error; callers that
	// only care about best-effort listing (the watcher) use the partial
	// result and log the error rather than aborting the cycle.
	List(ctx context.Context, loc model.Location) (model.Snapshot, error)

	// Read returns the full contents of rel. Fails with locerr.ErrNotFound
	// if absent.
	Read(ctx context.Context, loc model.Location, rel model.RelPath) ([]byte, error)

	// Write overwrites-or-creates rel atomically: a concurrent List must
	// never observe a truncated intermediate state.
	Write(ctx context.Context, loc model.Location, rel model.RelPath, data []byte) error

	// Delete removes rel. Succeeds silently if it is already absent.
	Delete(ctx context.Context, loc model.Location, rel model.RelPath) error
}

// Resolver dispatches a model.Location to the Adapter that implements its
// Kind. It holds one adapter instance per backend kind; adapters themselves
// are stateless with respect to which location they're handed (the
// model.Location is a parameter on every call), so a single Resolver can
// serve every watcher and the coordinator concurrently.
type Resolver struct {
	folder Adapter
	zip    Adapter
	ftp    Adapter
}

// NewResolver wires the three concrete backends together.
func NewResolver(folder, zip, ftp Adapter) *Resolver {
	return &Resolver{folder: folder, zip: zip, ftp: ftp}
}

// For returns the Adapter responsible for loc.Kind.
func (r *Resolver) For(loc model.Location) (Adapter, error) {
	switch loc.Kind {
	case model.KindFolder:
		return r.folder, nil
	case model.KindZip:
		return r.zip, nil
	case model.KindFTP:
		return r.ftp, nil
	default:
		return nil, fmt.Errorf("location: unknown kind %v", loc.Kind)
	}
}

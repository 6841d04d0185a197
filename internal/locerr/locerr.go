// Package locerr defines the sentinel error kinds from spec.md §7 and the
// small helpers the adapters and coordinator use to classify a wrapped
// error, in the same spirit as rclone's fs/fserrors translation helpers
// (translateErrorFile / translateErrorDir in backend/ftp/ftp.go).
package locerr

import "errors"

// Sentinel errors. Adapters wrap these with fmt.Errorf("...: %w", ErrX) so
// that errors.Is still matches after context is added.
var (
	// ErrSpecInvalid marks a malformed location spec string.
	ErrSpecInvalid = errors.New("invalid location specification")

	// ErrNotFound marks a read of an absent file.
	ErrNotFound = errors.New("not found")

	// ErrIO marks a transient backend failure (network, filesystem).
	ErrIO = errors.New("backend I/O error")

	// ErrAdapterFatal marks a location that has become persistently
	// unusable; the watcher for it should keep running but report empty
	// snapshots rather than crash the engine.
	ErrAdapterFatal = errors.New("adapter is no longer usable")

	// ErrStopRequested marks a graceful shutdown in progress.
	ErrStopRequested = errors.New("stop requested")
)

// IsNotFound reports whether err (or anything it wraps) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFatal reports whether err (or anything it wraps) is ErrAdapterFatal.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAdapterFatal)
}

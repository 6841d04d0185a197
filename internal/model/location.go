// Package model holds the data types shared by every component of the
// synchronization engine: locations, snapshots, events and the last-event
// table. Nothing in here talks to a backend or to the network — see
// internal/location for that.
package model

import "fmt"

// Kind tags the concrete variant of a Location.
type Kind int

// The three supported location kinds.
const (
	KindFolder Kind = iota
	KindZip
	KindFTP
)

// String renders the kind for logging.
func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindZip:
		return "zip"
	case KindFTP:
		return "ftp"
	default:
		return "unknown"
	}
}

// Location is a tagged variant over the three backends this engine
// understands. It is a plain comparable struct (not an interface) so that
// two Locations can be compared with == and used as map keys directly, per
// the "two locations are identical iff tag and fields match" rule.
//
// Only the fields relevant to Kind are meaningful; the zero value of the
// others is ignored.
type Location struct {
	Kind Kind

	// Path is the absolute directory path for KindFolder, or the absolute
	// path to the .zip file for KindZip.
	Path string

	// FTP fields, meaningful only when Kind == KindFTP.
	Host       string
	Username   string
	Password   string
	RemotePath string
}

// Folder constructs a folder Location.
func Folder(path string) Location {
	return Location{Kind: KindFolder, Path: path}
}

// Zip constructs a zip Location.
func Zip(path string) Location {
	return Location{Kind: KindZip, Path: path}
}

// FTP constructs an FTP Location. remotePath must be non-empty and begin
// with "/"; callers (internal/locate) are responsible for that invariant.
func FTP(host, username, password, remotePath string) Location {
	return Location{Kind: KindFTP, Host: host, Username: username, Password: password, RemotePath: remotePath}
}

// String renders the location the way it would appear in a log line. It
// never includes the FTP password.
func (l Location) String() string {
	switch l.Kind {
	case KindFolder:
		return "folder:" + l.Path
	case KindZip:
		return "zip:" + l.Path
	case KindFTP:
		return fmt.Sprintf("ftp:%s@%s%s", l.Username, l.Host, l.RemotePath)
	default:
		return "invalid-location"
	}
}

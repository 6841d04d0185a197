// Package locate implements the location spec grammar and the interactive /
// file-driven ingest CLI collaborator described in spec.md §6. It is
// explicitly out of the engine's core (spec.md §1): the core only ever
// consumes the already-parsed []model.Location it produces.
package locate

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogdan-spilevoi/meshsync/internal/model"
	"github.com/bogdan-spilevoi/meshsync/internal/result"
)

const (
	prefixFolder = "folder:"
	prefixZip    = "zip:"
	prefixFTP    = "ftp:"
)

// Parse turns one location spec line into a model.Location, following the
// grammar in spec.md §6:
//
//	folder:<path>                          - must be an existing directory
//	zip:<path>                             - must be an existing, valid ZIP archive
//	ftp:<user>:<password>@<host>[/<path>]  - user, password, host all non-empty
func Parse(spec string) result.Result[model.Location] {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return result.Err[model.Location]("Empty path specification.")
	}

	switch {
	case strings.HasPrefix(spec, prefixFolder):
		return parseFolder(strings.TrimPrefix(spec, prefixFolder))
	case strings.HasPrefix(spec, prefixZip):
		return parseZip(strings.TrimPrefix(spec, prefixZip))
	case strings.HasPrefix(spec, prefixFTP):
		return parseFTP(spec, strings.TrimPrefix(spec, prefixFTP))
	default:
		return result.Err[model.Location](fmt.Sprintf("Unknown path type (expected folder:/zip:/ftp:). [%s]", spec))
	}
}

func parseFolder(path string) result.Result[model.Location] {
	abs, err := isValidDir(path)
	if err != nil {
		return result.Err[model.Location](err.Error())
	}
	return result.Ok(model.Folder(abs))
}

func parseZip(path string) result.Result[model.Location] {
	abs, err := isValidFile(path)
	if err != nil {
		return result.Err[model.Location](err.Error())
	}
	zr, err := zip.OpenReader(abs)
	if err != nil {
		return result.Err[model.Location](fmt.Sprintf("Path is not a valid ZIP archive. [%s]", path))
	}
	_ = zr.Close()
	return result.Ok(model.Zip(abs))
}

func parseFTP(spec, rest string) result.Result[model.Location] {
	creds, hostAndPath, found := strings.Cut(rest, "@")
	if !found {
		return result.Err[model.Location](fmt.Sprintf("Invalid FTP specification. [%s]", spec))
	}
	username, password, found := strings.Cut(creds, ":")
	if !found {
		return result.Err[model.Location](fmt.Sprintf("Invalid FTP specification. [%s]", spec))
	}

	var host, remotePath string
	if idx := strings.IndexByte(hostAndPath, '/'); idx >= 0 {
		host = hostAndPath[:idx]
		remotePath = "/" + hostAndPath[idx+1:]
	} else {
		host = hostAndPath
		remotePath = "/"
	}

	if username == "" || password == "" || host == "" {
		return result.Err[model.Location](fmt.Sprintf("Invalid FTP specification. [%s]", spec))
	}

	return result.Ok(model.FTP(host, username, password, remotePath))
}

func isValidDir(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return "", fmt.Errorf("Path is not directory. [%s]", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("Path is not valid. [%s]", path)
	}
	return abs, nil
}

func isValidFile(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "", fmt.Errorf("Path is not file. [%s]", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("Path is not valid. [%s]", path)
	}
	return abs, nil
}

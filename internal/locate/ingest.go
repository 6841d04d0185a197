package locate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bogdan-spilevoi/meshsync/internal/model"
)

// Reporter is called once per rejected spec line, in encounter order. The
// CLI wires this to internal/console; tests can just collect into a slice.
type Reporter func(message string)

// Ingest reads location specs either interactively from in (terminated by a
// line equal to "end", case-insensitively) or, when useFile is true, from a
// file whose path is itself read from in (one spec per line, blank lines
// skipped). A fixed prompt is written to out before each read from in.
func Ingest(in io.Reader, out io.Writer, useFile bool, report Reporter) []model.Location {
	scanner := bufio.NewScanner(in)

	if useFile {
		fmt.Fprint(out, "Enter path for paths file: ")
		if !scanner.Scan() {
			return nil
		}
		filePath := strings.TrimSpace(scanner.Text())
		return ingestFromFile(filePath, report)
	}
	return ingestInteractive(scanner, out, report)
}

func ingestFromFile(path string, report Reporter) []model.Location {
	abs, err := isValidFile(path)
	if err != nil {
		report(err.Error())
		return nil
	}
	data, err := readFileSafely(abs)
	if err != nil {
		report(fmt.Sprintf("Could not read paths file: %v", err))
		return nil
	}

	var locations []model.Location
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		parsed := Parse(line)
		if !parsed.OK() {
			report(parsed.Error())
			continue
		}
		locations = append(locations, parsed.Value())
	}
	return locations
}

func ingestInteractive(scanner *bufio.Scanner, out io.Writer, report Reporter) []model.Location {
	var locations []model.Location
	for {
		fmt.Fprint(out, "Enter path (folder:/zip:/ftp: or [end]): ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "end") {
			break
		}
		parsed := Parse(line)
		if !parsed.OK() {
			report(parsed.Error())
			continue
		}
		locations = append(locations, parsed.Value())
	}
	return locations
}

// readFileSafely mirrors path_utilities.read_file_safely: a handful of
// retries on a permission error, since on some platforms a file that was
// just written by another process briefly rejects an open for read.
func readFileSafely(path string) ([]byte, error) {
	const retries = 10
	const delay = 50

	var lastErr error
	for i := 0; i < retries; i++ {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsPermission(err) {
			return nil, err
		}
		lastErr = err
		sleepMillis(delay)
	}
	return nil, lastErr
}

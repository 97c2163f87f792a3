// Package count reads files and counts their lines, detecting binary
// content via a null-byte sniff so binary files can be skipped per file.
package count

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/src-d/enry/v2"
)

// ErrBinary is returned by CountLines when the file content fails the text
// heuristic. Callers skip such files rather than failing the run.
var ErrBinary = errors.New("binary content")

// binarySniffLength is the number of bytes scanned for null bytes when
// detecting binary content. Matches the heuristic used by Git.
const binarySniffLength = 8000

// Counter counts newline-delimited lines in files on disk.
type Counter struct{}

// NewCounter creates a Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// CountLines returns the number of lines in the file at path.
//
// An empty file counts 0 lines; a non-empty file without a trailing newline
// counts its final partial line. Returns ErrBinary for content with a null
// byte in the sniff window, and a wrapped I/O error when the file cannot
// be read. Both are per-file outcomes, never fatal to a run.
func (c *Counter) CountLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	if len(data) == 0 {
		return 0, nil
	}

	sniff := data
	if len(sniff) > binarySniffLength {
		sniff = sniff[:binarySniffLength]
	}

	if enry.IsBinary(sniff) {
		return 0, ErrBinary
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines, nil
}

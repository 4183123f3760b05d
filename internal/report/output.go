package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Open returns the destination for a report.
// An empty path is stdout, which is never closed by the returned closer.
// Any other path is opened for appending and created when missing, along
// with its parent directories.
//
// Design decision: Files are appended to rather than truncated so that
// repeated runs with the same configuration build up a log of results.
func Open(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

// MaxFileSize caps how much ReadFileWithLimit will read (1MB). Waybar
// configs and stylesheets are a few kilobytes; anything near the cap is not
// a file this tool should be rewriting.
const MaxFileSize = 1 << 20

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize, returning
// ErrFileTooLarge beyond it.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast on the reported size; the limited read below still catches
	// files that grow between stat and read.
	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

// Package fileutil provides guarded reads and atomic writes for the
// configuration files the tool patches.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

// AtomicWriteFile writes data to path through a temp file and rename, so an
// interrupted write leaves the original file intact. There is never a
// half-written target: the rename either happens completely or not at all.
//
// The temp file lives in the target's directory because rename is only
// atomic within one filesystem. The caller ensures the directory exists;
// perm is applied to the final file.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".waybar-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Still present means the rename never happened.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

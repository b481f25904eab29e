package backup

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/pkg/fileutil"
)

// Manager creates and restores timestamped sibling backups.
// A backup of /path/to/style.css is written to
// /path/to/style.css.bak.20250812-140455 next to the original.
type Manager struct {
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for backup suffixes.
// Intended for tests that need deterministic names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create copies path to a timestamped sibling and returns the backup path.
// When a backup with the same second-resolution suffix already exists, the
// suffix is extended with nanoseconds so the new name still sorts last.
func (m *Manager) Create(path string) (string, error) {
	ts := m.now()

	backupPath := path + Marker + ts.Format(TimestampFormat)
	if _, err := os.Lstat(backupPath); err == nil {
		backupPath = path + Marker + ts.Format(timestampNanoFormat)
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", errors.Wrapf(err, "backing up %s", path)
	}

	return backupPath, nil
}

// Latest returns the newest backup of path, ordered by the parsed timestamp
// suffix. The boolean is false when the file has no backups.
func (m *Manager) Latest(path string) (string, bool, error) {
	entries, err := m.List(path)
	if err != nil {
		return "", false, err
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	return entries[0].Path, true, nil
}

// List returns every backup of path, newest first.
// A missing parent directory yields an empty list, not an error.
func (m *Manager) List(path string) ([]Entry, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + Marker

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		e := Entry{
			Path:   filepath.Join(dir, name),
			Target: path,
		}
		if ts, err := parseTimestamp(strings.TrimPrefix(name, prefix)); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}

	// Newest first by parsed timestamp. Entries whose suffix is not a
	// timestamp sort after every dated one, then by name, so a hand-renamed
	// backup can never shadow a real one in Latest.
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.CreatedAt.IsZero() != b.CreatedAt.IsZero() {
			if a.CreatedAt.IsZero() {
				return 1
			}
			return -1
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	return entries, nil
}

// Restore replaces path with the contents of backupPath. The current file is
// backed up first so a restore is itself undoable; the fresh backup's path is
// returned, empty when path did not exist. The write is atomic and keeps the
// backup's permission bits.
func (m *Manager) Restore(path, backupPath string) (string, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrNoBackupsFound, "backup %s", backupPath)
		}
		return "", errors.Wrap(err, "reading backup")
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		return "", errors.Wrap(err, "stat backup")
	}

	var fresh string
	if _, err := os.Stat(path); err == nil {
		fresh, err = m.Create(path)
		if err != nil {
			return "", err
		}
	}

	if err := fileutil.AtomicWriteFile(path, data, info.Mode().Perm()); err != nil {
		return fresh, errors.Wrapf(err, "restoring %s", path)
	}

	return fresh, nil
}

// parseTimestamp parses a backup suffix in either the second or nanosecond
// layout. Suffixes are written in local time.
func parseTimestamp(s string) (time.Time, error) {
	layout := TimestampFormat
	if strings.ContainsRune(s, '.') {
		layout = timestampNanoFormat
	}
	return time.ParseInLocation(layout, s, time.Local)
}

// copyFile copies src to dst, preserving the source's permission bits.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}

	return nil
}

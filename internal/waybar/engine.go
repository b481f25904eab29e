package waybar

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/thoreinstein/waybar-ai-usage/internal/backup"
	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
	"github.com/thoreinstein/waybar-ai-usage/internal/region"
	"github.com/thoreinstein/waybar-ai-usage/pkg/fileutil"
	"github.com/thoreinstein/waybar-ai-usage/pkg/jsondoc"
)

// Options configures a Setup or Cleanup run.
type Options struct {
	// ConfigPath is the Waybar config to patch.
	ConfigPath string

	// StylePath is the Waybar stylesheet to patch.
	StylePath string

	// DryRun reports what would change without backing up or writing.
	DryRun bool

	// Browsers are appended as --browser flags to the exec command of each
	// managed module definition. Setup only.
	Browsers []string

	// Source supplies the bundled config and style templates.
	// Defaults to NewBundled().
	Source Source

	// Backups is the ledger consulted before every write.
	// Defaults to backup.NewManager().
	Backups *backup.Manager

	// Out receives the per-file progress lines. Defaults to os.Stdout.
	Out io.Writer

	// Log receives diagnostics. Defaults to slog.Default().
	Log *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Source == nil {
		o.Source = NewBundled()
	}
	if o.Backups == nil {
		o.Backups = backup.NewManager()
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
}

// Setup installs the usage modules into the Waybar config and stylesheet:
// membership entries in modules-left, module definitions copied from the
// bundled template, and the managed style region. Missing files are created.
// Running Setup against an already patched pair changes nothing.
func Setup(opts Options) error {
	opts.setDefaults()

	template, styleRegion, err := loadTemplates(opts.Source)
	if err != nil {
		return err
	}
	if len(styleRegion) == 0 {
		opts.Log.Warn("style template has no managed region, stylesheet left alone")
	}

	doc := jsondoc.New()
	raw, err := fileutil.ReadFileWithLimit(opts.ConfigPath)
	switch {
	case err == nil:
		if doc, err = jsondoc.Parse(raw); err != nil {
			return errors.Wrapf(err, "parsing %s", opts.ConfigPath)
		}
	case errors.Is(err, os.ErrNotExist):
		// Start from an empty document and create the file below.
	default:
		return errors.Wrapf(err, "reading %s", opts.ConfigPath)
	}

	changed := EnsureModules(doc, Modules)
	if EnsureDefinitions(doc, Modules, template) {
		changed = true
	}
	if AddBrowserFlags(doc, Modules, opts.Browsers) {
		changed = true
	}

	encoded, err := doc.Encode()
	if err != nil {
		return errors.Wrapf(err, "encoding %s", opts.ConfigPath)
	}
	if err := applyFile(opts, opts.ConfigPath, encoded, changed); err != nil {
		return err
	}

	lines, err := readLines(opts.StylePath)
	if err != nil {
		return err
	}
	updated := StyleMarkers.Inject(lines, styleRegion)
	styleChanged := !slices.Equal(updated, lines)
	return applyFile(opts, opts.StylePath, []byte(region.JoinLines(updated)), styleChanged)
}

// Cleanup removes everything Setup installs from both files. Missing files
// are reported and skipped. Stray usage blocks left behind by hand edits are
// removed from the stylesheet even when the marker comments are gone.
// Running Cleanup against a clean pair changes nothing.
func Cleanup(opts Options) error {
	opts.setDefaults()

	raw, err := fileutil.ReadFileWithLimit(opts.ConfigPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(opts.Out, "Config not found: %s\n", opts.ConfigPath)
	case err != nil:
		return errors.Wrapf(err, "reading %s", opts.ConfigPath)
	default:
		doc, err := jsondoc.Parse(raw)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", opts.ConfigPath)
		}
		changed := RemoveModules(doc, Modules)
		if RemoveDefinitions(doc, Modules) {
			changed = true
		}
		encoded, err := doc.Encode()
		if err != nil {
			return errors.Wrapf(err, "encoding %s", opts.ConfigPath)
		}
		if err := applyFile(opts, opts.ConfigPath, encoded, changed); err != nil {
			return err
		}
	}

	styleRaw, err := fileutil.ReadFileWithLimit(opts.StylePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(opts.Out, "Style not found: %s\n", opts.StylePath)
	case err != nil:
		return errors.Wrapf(err, "reading %s", opts.StylePath)
	default:
		lines := region.SplitLines(string(styleRaw))
		updated := StyleMarkers.Remove(lines)
		changed := !slices.Equal(updated, lines)
		if err := applyFile(opts, opts.StylePath, []byte(region.JoinLines(updated)), changed); err != nil {
			return err
		}
	}

	return nil
}

// RestoreOptions configures a Restore run.
type RestoreOptions struct {
	// ConfigPath and StylePath are the files to roll back.
	ConfigPath string
	StylePath  string

	// ConfigBackup and StyleBackup name explicit backup files to restore
	// from. Empty selects the newest ledger entry for the file.
	ConfigBackup string
	StyleBackup  string

	// DryRun reports what would change without backing up or writing.
	DryRun bool

	// Backups is the ledger used for lookup and for the pre-restore backup.
	// Defaults to backup.NewManager().
	Backups *backup.Manager

	// Out receives the per-file progress lines. Defaults to os.Stdout.
	Out io.Writer
}

func (o *RestoreOptions) setDefaults() {
	if o.Backups == nil {
		o.Backups = backup.NewManager()
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
}

// Restore rewrites the config and stylesheet from their selected backups,
// taking a fresh backup of each current file first so the restore itself can
// be undone. A file with no ledger entries is reported and skipped; if
// neither file has one the run fails with backup.ErrNoBackupsFound. A file
// already matching its backup is left alone.
func Restore(opts RestoreOptions) error {
	opts.setDefaults()

	restoredConfig, err := restoreFile(opts, opts.ConfigPath, opts.ConfigBackup)
	if err != nil {
		return err
	}
	restoredStyle, err := restoreFile(opts, opts.StylePath, opts.StyleBackup)
	if err != nil {
		return err
	}

	if !restoredConfig && !restoredStyle {
		return backup.ErrNoBackupsFound
	}
	return nil
}

// restoreFile rolls back one file. It reports false only when the file was
// skipped for lack of a ledger entry; no-ops and dry runs count as restored.
func restoreFile(opts RestoreOptions, path, backupPath string) (bool, error) {
	if backupPath == "" {
		latest, ok, err := opts.Backups.Latest(path)
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintf(opts.Out, "No backups found for: %s\n", path)
			return false, nil
		}
		backupPath = latest
	}

	want, err := fileutil.ReadFileWithLimit(backupPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, errors.Wrapf(backup.ErrNoBackupsFound, "backup %s", backupPath)
		}
		return false, errors.Wrapf(err, "reading backup %s", backupPath)
	}

	have, err := fileutil.ReadFileWithLimit(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, errors.Wrapf(err, "reading %s", path)
	}

	if bytes.Equal(have, want) {
		fmt.Fprintf(opts.Out, "No changes needed in: %s\n", path)
		return true, nil
	}

	if opts.DryRun {
		fmt.Fprintf(opts.Out, "[dry-run] Would update: %s\n", path)
		return true, nil
	}

	fresh, err := opts.Backups.Restore(path, backupPath)
	if err != nil {
		return false, err
	}
	if fresh != "" {
		fmt.Fprintf(opts.Out, "Backup created: %s\n", fresh)
	}
	fmt.Fprintf(opts.Out, "Updated: %s\n", path)
	return true, nil
}

// loadTemplates parses the bundled config template and extracts the managed
// region from the bundled stylesheet.
func loadTemplates(src Source) (*jsondoc.Document, []string, error) {
	confData, err := src.Config()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config template")
	}
	template, err := jsondoc.Parse(confData)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing config template")
	}

	styleData, err := src.Style()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading style template")
	}
	styleRegion := StyleMarkers.Extract(region.SplitLines(string(styleData)))

	return template, styleRegion, nil
}

// applyFile is the shared write path: report no-ops, honor dry-run, back the
// file up, then write atomically. A failed backup aborts the write, so the
// target is never touched without a rollback point.
func applyFile(opts Options, path string, content []byte, changed bool) error {
	if !changed {
		fmt.Fprintf(opts.Out, "No changes needed in: %s\n", path)
		return nil
	}
	if opts.DryRun {
		fmt.Fprintf(opts.Out, "[dry-run] Would update: %s\n", path)
		return nil
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
		backupPath, err := opts.Backups.Create(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(opts.Out, "Backup created: %s\n", backupPath)
	} else if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}

	if err := fileutil.AtomicWriteFile(path, content, perm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	fmt.Fprintf(opts.Out, "Updated: %s\n", path)
	return nil
}

// readLines reads path and splits it into lines. A missing file reads as an
// empty document.
func readLines(path string) ([]string, error) {
	raw, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return region.SplitLines(string(raw)), nil
}

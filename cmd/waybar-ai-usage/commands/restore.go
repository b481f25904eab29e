package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/waybar-ai-usage/internal/backup"
	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/waybar"
)

var (
	restoreConfigPath   string
	restoreStylePath    string
	restoreConfigBackup string
	restoreStyleBackup  string
	restorePick         bool
	restoreDryRun       bool
	restoreYes          bool
)

func init() {
	restoreCmd.Flags().StringVar(&restoreConfigPath, "config", "", "Waybar config file to roll back (default from tool config)")
	restoreCmd.Flags().StringVar(&restoreStylePath, "style", "", "Waybar stylesheet to roll back (default from tool config)")
	restoreCmd.Flags().StringVar(&restoreConfigBackup, "config-backup", "", "specific backup file to restore the config from")
	restoreCmd.Flags().StringVar(&restoreStyleBackup, "style-backup", "", "specific backup file to restore the stylesheet from")
	restoreCmd.Flags().BoolVar(&restorePick, "pick", false, "choose the backups interactively")
	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "report what would change without writing")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Roll Waybar files back to a backup",
	Long: `Overwrite the Waybar config and stylesheet with the content of an earlier
backup. Without flags each file gets its newest backup; --config-backup and
--style-backup name specific ones, and --pick opens a fuzzy finder over the
available backups instead.

The current state of each file is backed up first, so a restore can itself
be undone by another restore. A file with no backups is reported and
skipped; a file already matching its backup is left alone.`,
	Example: `  # Roll both files back to their newest backups
  waybar-ai-usage restore

  # Choose the backups interactively
  waybar-ai-usage restore --pick

  # Restore the config from a specific backup
  waybar-ai-usage restore --config-backup ~/.config/waybar/config.jsonc.bak.20260821-101500

  See Also:
    waybar-ai-usage setup   - Install the modules
    waybar-ai-usage cleanup - Remove the modules`,
	RunE: runRestore,
}

func runRestore(_ *cobra.Command, _ []string) error {
	return runRestoreWithIO(os.Stdout, os.Stdin)
}

// runRestoreWithIO allows injecting writers for testing.
func runRestoreWithIO(w io.Writer, r io.Reader) error {
	cfg, err := toolConfig()
	if err != nil {
		return err
	}
	configPath, stylePath := resolveTargets(cfg, restoreConfigPath, restoreStylePath)

	mgr := backup.NewManager()
	configBackup, styleBackup := restoreConfigBackup, restoreStyleBackup

	if restorePick {
		if configBackup == "" {
			if configBackup, err = pickBackup(w, mgr, configPath); err != nil {
				return err
			}
		}
		if styleBackup == "" {
			if styleBackup, err = pickBackup(w, mgr, stylePath); err != nil {
				return err
			}
		}
	}

	if err := gateWrite(w, r, restoreYes, restoreDryRun, configPath, stylePath); err != nil {
		return err
	}

	err = waybar.Restore(waybar.RestoreOptions{
		ConfigPath:   configPath,
		StylePath:    stylePath,
		ConfigBackup: configBackup,
		StyleBackup:  styleBackup,
		DryRun:       restoreDryRun,
		Backups:      mgr,
		Out:          w,
	})
	if errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewUserError(err, "Run a setup or cleanup first; backups are created before every write")
	}
	return err
}

// pickBackup opens a fuzzy finder over the ledger of path. An empty ledger
// selects nothing, which makes the restore engine report and skip the file.
func pickBackup(w io.Writer, mgr *backup.Manager, path string) (string, error) {
	entries, err := mgr.List(path)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			e := entries[i]
			if e.CreatedAt.IsZero() {
				return filepath.Base(e.Path)
			}
			return fmt.Sprintf("%s (%s)", filepath.Base(e.Path), e.CreatedAt.Format("2006-01-02 15:04:05"))
		},
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Fprintln(w, "Aborted.")
			return "", errors.NewExitError(errors.ErrAborted, errors.ExitUser)
		}
		return "", errors.Wrap(err, "picking backup")
	}
	return entries[idx].Path, nil
}

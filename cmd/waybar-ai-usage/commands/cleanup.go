package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/waybar"
)

var (
	cleanupConfigPath string
	cleanupStylePath  string
	cleanupDryRun     bool
	cleanupYes        bool
)

func init() {
	cleanupCmd.Flags().StringVar(&cleanupConfigPath, "config", "", "Waybar config file to patch (default from tool config)")
	cleanupCmd.Flags().StringVar(&cleanupStylePath, "style", "", "Waybar stylesheet to patch (default from tool config)")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report what would change without writing")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(cleanupCmd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove the usage modules from Waybar",
	Long: `Remove everything setup installed from your Waybar configuration.

The module entries leave modules-left, their definitions disappear from the
config, and the managed styling region is cut out of the stylesheet. Stray
usage blocks are removed even when the marker comments were edited away.
Everything else stays untouched, and each file is backed up before it is
rewritten.

Running cleanup against a clean configuration changes nothing. Missing
files are reported and skipped.`,
	Example: `  # Remove the modules from ~/.config/waybar
  waybar-ai-usage cleanup

  # Preview without touching anything
  waybar-ai-usage cleanup --dry-run

  See Also:
    waybar-ai-usage setup   - Install the modules
    waybar-ai-usage restore - Roll back to a backup`,
	RunE: runCleanup,
}

func runCleanup(_ *cobra.Command, _ []string) error {
	return runCleanupWithIO(os.Stdout, os.Stdin)
}

// runCleanupWithIO allows injecting writers for testing.
func runCleanupWithIO(w io.Writer, r io.Reader) error {
	cfg, err := toolConfig()
	if err != nil {
		return err
	}
	configPath, stylePath := resolveTargets(cfg, cleanupConfigPath, cleanupStylePath)

	if err := gateWrite(w, r, cleanupYes, cleanupDryRun, configPath, stylePath); err != nil {
		return err
	}

	err = waybar.Cleanup(waybar.Options{
		ConfigPath: configPath,
		StylePath:  stylePath,
		DryRun:     cleanupDryRun,
		Out:        w,
	})
	if err != nil {
		return errors.NewSystemError(err, "Check that the Waybar files are valid and writable, then retry")
	}
	return nil
}

package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/waybar"
)

var (
	setupConfigPath string
	setupStylePath  string
	setupBrowsers   []string
	setupDryRun     bool
	setupYes        bool
)

func init() {
	setupCmd.Flags().StringVar(&setupConfigPath, "config", "", "Waybar config file to patch (default from tool config)")
	setupCmd.Flags().StringVar(&setupStylePath, "style", "", "Waybar stylesheet to patch (default from tool config)")
	setupCmd.Flags().StringArrayVar(&setupBrowsers, "browser", nil, "browser profile(s) to pass to the usage fetcher (repeatable)")
	setupCmd.Flags().BoolVar(&setupDryRun, "dry-run", false, "report what would change without writing")
	setupCmd.Flags().BoolVarP(&setupYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the usage modules into Waybar",
	Long: `Install the Claude and Codex usage modules into your Waybar configuration.

The config file gains the two module entries in modules-left plus their
definitions, copied from the bundled template with the exec command pointed
at this binary. The stylesheet gains the managed styling region. Every
unrelated line is preserved, and each file is backed up to a timestamped
sibling before it is rewritten.

Running setup against an already patched configuration changes nothing and
takes no backup.`,
	Example: `  # Install into ~/.config/waybar
  waybar-ai-usage setup

  # Preview without touching anything
  waybar-ai-usage setup --dry-run

  # Patch a non-default config pair
  waybar-ai-usage setup --config ~/waybar/config.jsonc --style ~/waybar/style.css

  # Have the installed modules read cookies from a specific browser
  waybar-ai-usage setup --browser firefox

  See Also:
    waybar-ai-usage cleanup - Remove the modules again
    waybar-ai-usage restore - Roll back to a backup`,
	RunE: runSetup,
}

func runSetup(_ *cobra.Command, _ []string) error {
	return runSetupWithIO(os.Stdout, os.Stdin)
}

// runSetupWithIO allows injecting writers for testing.
func runSetupWithIO(w io.Writer, r io.Reader) error {
	cfg, err := toolConfig()
	if err != nil {
		return err
	}
	configPath, stylePath := resolveTargets(cfg, setupConfigPath, setupStylePath)

	if err := gateWrite(w, r, setupYes, setupDryRun, configPath, stylePath); err != nil {
		return err
	}

	err = waybar.Setup(waybar.Options{
		ConfigPath: configPath,
		StylePath:  stylePath,
		DryRun:     setupDryRun,
		Browsers:   setupBrowsers,
		Out:        w,
	})
	if err != nil {
		return errors.NewSystemError(err, "Check that the Waybar files are valid and writable, then retry")
	}
	return nil
}

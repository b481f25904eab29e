package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/waybar-ai-usage/internal/config"
	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize waybar-ai-usage configuration",
	Long: `Write the tool's own configuration scaffold.

Creates ` + "`config.yaml`" + ` under the XDG config directory, populated with the
built-in defaults: the Waybar file locations, the cache TTL, and empty
credential fields to fill in. Every value can also be supplied through the
WAYBAR_AI_USAGE_* environment instead.`,
	Example: `  # Write the scaffold
  waybar-ai-usage init

  # Overwrite an existing config
  waybar-ai-usage init --force

  See Also: waybar-ai-usage usage, waybar-ai-usage setup`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithWriter(os.Stdout)
}

// runInitWithWriter allows injecting the writer for testing.
func runInitWithWriter(w io.Writer) error {
	configDir := os.Getenv(config.EnvPrefix + "_CONFIG_DIR")
	if configDir == "" {
		configDir = paths.ToolConfigDir()
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	if err := paths.EnsureDir(configDir, 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	return nil
}

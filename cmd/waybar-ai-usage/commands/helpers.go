package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/thoreinstein/waybar-ai-usage/internal/config"
	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

// toolConfig returns the implicitly loaded tool configuration, or defaults
// when no command ran through cobra (tests call the run bodies directly).
func toolConfig() (*config.Config, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if loadedConfig == nil {
		return config.Default(), nil
	}
	return loadedConfig, nil
}

// resolveTargets returns the Waybar files to operate on: explicit flags win,
// the tool config supplies the rest.
func resolveTargets(cfg *config.Config, configFlag, styleFlag string) (configPath, stylePath string) {
	configPath = cfg.Waybar.ConfigPath
	if configFlag != "" {
		configPath = configFlag
	}
	stylePath = cfg.Waybar.StylePath
	if styleFlag != "" {
		stylePath = styleFlag
	}
	return configPath, stylePath
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(w io.Writer, r io.Reader, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// gateWrite is the confirmation gate in front of every mutating command.
// Dry runs and --yes pass straight through; a declined prompt prints
// "Aborted." and surfaces the aborted sentinel with the user exit code so
// scripted callers can tell a refusal from a no-op.
func gateWrite(w io.Writer, r io.Reader, yes, dryRun bool, configPath, stylePath string) error {
	if yes || dryRun {
		return nil
	}

	fmt.Fprintln(w, "This may modify:")
	fmt.Fprintf(w, "  %s\n", configPath)
	fmt.Fprintf(w, "  %s\n", stylePath)

	if !confirm(w, r, "Proceed?") {
		fmt.Fprintln(w, "Aborted.")
		return errors.NewExitError(errors.ErrAborted, errors.ExitUser)
	}
	return nil
}

// Package main is the entry point for the waybar-ai-usage CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/waybar-ai-usage/cmd/waybar-ai-usage/commands"
	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		os.Exit(errors.ExitSuccess)
	}

	code := errors.ExitSystem
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	// The aborted sentinel already produced its "Aborted." line.
	if !errors.Is(err, errors.ErrAborted) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if exitErr != nil && exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", exitErr.Suggestion)
		}
	}
	os.Exit(code)
}

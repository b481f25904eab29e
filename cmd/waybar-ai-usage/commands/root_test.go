package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"setup", "cleanup", "restore", "usage", "init", "version"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, out.String())
		}
	}
}

func TestQuietAndVerboseConflict(t *testing.T) {
	quiet = true
	verbosity = 2
	t.Cleanup(func() {
		quiet = false
		verbosity = 0
	})

	if err := setupLogging(rootCmd); err == nil {
		t.Error("expected error for --quiet with --verbose")
	}
}

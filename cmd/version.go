// Package cmd holds build-time variables injected via ldflags.
package cmd

// Set by the release build; local builds keep the defaults.
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

// Package waybar patches Waybar configuration files to install, remove, and
// roll back the Claude and Codex usage modules.
//
// Three entry points cover the lifecycle:
//
//   - Setup adds the module names to modules-left, copies the module
//     definitions from the bundled config template, and injects the managed
//     style region into the stylesheet.
//   - Cleanup removes all of the above, including stray usage blocks whose
//     marker comments were hand-deleted.
//   - Restore rewrites both files from ledger backups, taking a fresh backup
//     first so the restore itself is reversible.
//
// Every operation is idempotent: running it twice produces the same files as
// running it once, and a run that changes nothing writes nothing. Each write
// is preceded by a timestamped backup (see internal/backup) and lands via an
// atomic rename, so a crash mid-run never leaves a half-written config.
//
// The config is treated as JSONC: comments survive a no-op run untouched but
// are stripped by any run that rewrites the file.
package waybar

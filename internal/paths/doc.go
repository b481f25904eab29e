// Package paths resolves the file locations waybar-ai-usage works with:
// the Waybar configuration pair it patches, this tool's own config and
// cache directories, and the Codex CLI credential file.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux, paths follow XDG conventions
// (~/.config, ~/.cache).
//
// # Well-Known Locations
//
//	paths.WaybarConfigPath() // ~/.config/waybar/config.jsonc
//	paths.WaybarStylePath()  // ~/.config/waybar/style.css
//	paths.ToolConfigDir()    // ~/.config/waybar-ai-usage/
//	paths.UsageCacheDir()    // ~/.cache/waybar-ai-usage/
//	paths.CodexAuthPath()    // $CODEX_HOME/auth.json, default ~/.codex/auth.json
//
// The Waybar paths are defaults only; every command accepts explicit
// --config and --style overrides.
package paths

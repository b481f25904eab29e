package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under XDG base directories.
const AppName = "waybar-ai-usage"

// Service identifiers for the usage fetchers.
const (
	ServiceClaude = "claude"
	ServiceCodex  = "codex"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// ToolConfigDir returns the directory holding this tool's own configuration.
// Returns: <ConfigHome>/waybar-ai-usage/
func ToolConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// UsageCacheDir returns the directory for cached usage snapshots.
// Returns: <CacheHome>/waybar-ai-usage/
func UsageCacheDir() string {
	return filepath.Join(CacheHome(), AppName)
}

// UsageCachePath returns the cache file for a service's usage snapshot.
// Returns: <UsageCacheDir>/<service>.json
func UsageCachePath(service string) string {
	return filepath.Join(UsageCacheDir(), service+".json")
}

// WaybarDir returns the Waybar configuration directory.
// Returns: <ConfigHome>/waybar/
func WaybarDir() string {
	return filepath.Join(ConfigHome(), "waybar")
}

// WaybarConfigPath returns the default Waybar config file.
// Returns: <ConfigHome>/waybar/config.jsonc
func WaybarConfigPath() string {
	return filepath.Join(WaybarDir(), "config.jsonc")
}

// WaybarStylePath returns the default Waybar stylesheet.
// Returns: <ConfigHome>/waybar/style.css
func WaybarStylePath() string {
	return filepath.Join(WaybarDir(), "style.css")
}

// CodexHome returns the Codex CLI home directory.
// Honors $CODEX_HOME, falling back to ~/.codex.
func CodexHome() string {
	if dir := os.Getenv("CODEX_HOME"); dir != "" {
		return dir
	}
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".codex")
}

// CodexAuthPath returns the Codex CLI credential file.
// Returns: <CodexHome>/auth.json
func CodexAuthPath() string {
	dir := CodexHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "auth.json")
}

// Package config provides configuration management for waybar-ai-usage using Viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "waybar-ai-usage"

// EnvPrefix is the prefix for environment variable overrides, e.g.
// WAYBAR_AI_USAGE_CLAUDE_SESSION_KEY overrides claude.session_key.
const EnvPrefix = "WAYBAR_AI_USAGE"

// CurrentVersion is the config schema version this build reads and writes.
const CurrentVersion = 1

// Config represents the top-level configuration structure.
type Config struct {
	Version int          `mapstructure:"version" yaml:"version"`
	Waybar  WaybarConfig `mapstructure:"waybar" yaml:"waybar"`
	Cache   CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Claude  ClaudeConfig `mapstructure:"claude" yaml:"claude"`
	Codex   CodexConfig  `mapstructure:"codex" yaml:"codex"`
}

// WaybarConfig holds the locations of the Waybar files the tool patches.
type WaybarConfig struct {
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
	StylePath  string `mapstructure:"style_path" yaml:"style_path"`
}

// CacheConfig controls the usage snapshot cache.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
}

// ClaudeConfig holds credentials for the Claude usage endpoint. Both fields
// are typically supplied via environment variables rather than the file.
type ClaudeConfig struct {
	SessionKey string `mapstructure:"session_key" yaml:"session_key"`
	OrgID      string `mapstructure:"org_id" yaml:"org_id"`
}

// CodexConfig points at the Codex CLI credential file.
type CodexConfig struct {
	AuthPath string `mapstructure:"auth_path" yaml:"auth_path"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	} else {
		viper.AddConfigPath(paths.ToolConfigDir())
	}

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults. Empty-string defaults register the nested keys so
	// environment overrides survive Unmarshal.
	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("waybar.config_path", paths.WaybarConfigPath())
	viper.SetDefault("waybar.style_path", paths.WaybarStylePath())
	viper.SetDefault("cache.ttl_seconds", 60)
	viper.SetDefault("claude.session_key", "")
	viper.SetDefault("claude.org_id", "")
	viper.SetDefault("codex.auth_path", paths.CodexAuthPath())
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errs[0])
	}

	return &cfg, nil
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Waybar: WaybarConfig{
			ConfigPath: paths.WaybarConfigPath(),
			StylePath:  paths.WaybarStylePath(),
		},
		Cache: CacheConfig{TTLSeconds: 60},
		Codex: CodexConfig{AuthPath: paths.CodexAuthPath()},
	}
}

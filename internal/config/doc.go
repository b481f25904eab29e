// Package config provides configuration management for the waybar-ai-usage CLI.
//
// This package handles loading and validating the tool's own configuration
// file. It is distinct from the Waybar configuration pair the tool patches,
// which is handled by internal/waybar.
//
// # Configuration File
//
// The default configuration file location is ~/.config/waybar-ai-usage/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	waybar:
//	  config_path: /home/me/.config/waybar/config.jsonc # optional
//	  style_path: /home/me/.config/waybar/style.css     # optional
//	cache:
//	  ttl_seconds: 60
//	claude:
//	  session_key: ""  # prefer WAYBAR_AI_USAGE_CLAUDE_SESSION_KEY
//	  org_id: ""       # prefer WAYBAR_AI_USAGE_CLAUDE_ORG_ID
//	codex:
//	  auth_path: ""    # defaults to $CODEX_HOME/auth.json
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// Environment variables with the WAYBAR_AI_USAGE_ prefix override file
// values; WAYBAR_AI_USAGE_CONFIG_DIR relocates the search directory.
//
// # Validation
//
// All loaded configurations are validated automatically. You can also
// validate a configuration manually:
//
//	errs := config.Validate(cfg)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
package config

package waybar

import "github.com/thoreinstein/waybar-ai-usage/internal/region"

// Module identifiers managed by this tool, as they appear in the Waybar
// config: once in the modules-left membership list and once as a top-level
// definition key.
const (
	ModuleClaude = "custom/claude-usage"
	ModuleCodex  = "custom/codex-usage"

	// ModulesKey is the membership list the modules are added to.
	ModulesKey = "modules-left"
)

// Modules lists the managed entries in install order.
var Modules = []string{ModuleClaude, ModuleCodex}

// StyleMarkers delimit the managed stylesheet region. The target selectors
// drive the fallback scan that removes stray module blocks when the marker
// pair is absent.
var StyleMarkers = region.Markers{
	Start: "/* Claude Code Usage Monitor Styling */",
	End:   "/* Error state (network failures, auth errors, etc.) */",
	Targets: []string{
		"#custom-claude-usage",
		"#custom-codex-usage",
	},
}

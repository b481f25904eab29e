package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
	"github.com/thoreinstein/waybar-ai-usage/internal/usage"
)

var (
	usageFresh    bool
	usageWaybar   bool
	usageBrowsers []string
)

func init() {
	usageCmd.Flags().BoolVar(&usageFresh, "fresh", false, "bypass the cache and fetch now")
	usageCmd.Flags().BoolVar(&usageWaybar, "waybar", false, "emit a single-line JSON snapshot for Waybar")
	usageCmd.Flags().StringArrayVar(&usageBrowsers, "browser", nil, "accepted for compatibility with installed module entries; ignored")
	rootCmd.AddCommand(usageCmd)
}

var usageCmd = &cobra.Command{
	Use:   "usage <claude|codex>",
	Short: "Fetch and print usage-quota data",
	Long: `Fetch the current rate-limit windows of a Claude or Codex account and
print them.

Snapshots are cached for a short TTL so the independent per-module Waybar
invocations do not hammer the endpoints; --fresh bypasses the cache. The
default output is a human-readable window list, --waybar switches to the
single-line JSON the installed module entries consume.

Claude needs a session key and organization id in the tool config or the
WAYBAR_AI_USAGE_CLAUDE_* environment. Codex reads the Codex CLI's own
auth.json and refreshes its tokens when they are stale.`,
	Example: `  # Human-readable view
  waybar-ai-usage usage claude

  # What the Waybar module runs
  waybar-ai-usage usage codex --waybar

  # Force a fetch even when the cache is fresh
  waybar-ai-usage usage claude --fresh

  See Also: waybar-ai-usage setup, waybar-ai-usage init`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{paths.ServiceClaude, paths.ServiceCodex},
	RunE:      runUsage,
}

func runUsage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runUsageWithIO(ctx, args, os.Stdout)
}

// runUsageWithIO allows injecting the writer for testing.
func runUsageWithIO(ctx context.Context, args []string, w io.Writer) error {
	cfg, err := toolConfig()
	if err != nil {
		return err
	}

	service := args[0]
	var fetch usage.FetchFunc
	switch service {
	case paths.ServiceClaude:
		fetch = usage.NewClaudeClient(cfg.Claude.SessionKey, cfg.Claude.OrgID).Fetch
	case paths.ServiceCodex:
		fetch = usage.NewCodexClient(cfg.Codex.AuthPath).Fetch
	default:
		return errors.NewUserError(errors.Newf("unknown service %q", service),
			"valid services: claude, codex")
	}

	cache := usage.NewCache(paths.UsageCachePath(service), time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	var snap *usage.Snapshot
	if usageFresh {
		snap, err = cache.Refresh(ctx, fetch)
	} else {
		snap, err = cache.Get(ctx, fetch)
	}
	if err != nil {
		if errors.Is(err, errors.ErrMissingCredentials) {
			return errors.NewUserError(err, "Run: waybar-ai-usage init, then fill in the credentials")
		}
		return err
	}

	if usageWaybar {
		data, err := snap.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprint(w, snap.Render(time.Now()))
	return nil
}

package usage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

// Window labels shared by both providers: the rolling five-hour quota and
// the weekly one.
const (
	WindowFiveHour = "5h"
	WindowSevenDay = "7d"
)

// Window is one rate-limit window of a provider account.
type Window struct {
	Label       string  `json:"label"`
	UsedPercent float64 `json:"used_percent"`

	// ResetsAt is the provider's reset timestamp in RFC 3339, or empty when
	// the provider omitted it. Kept as text so an odd value round-trips
	// through the cache instead of being silently zeroed.
	ResetsAt string `json:"resets_at,omitempty"`
}

// Snapshot is a provider's usage at a point in time. Windows keep the
// provider's order, five-hour first.
type Snapshot struct {
	Service   string    `json:"service"`
	FetchedAt time.Time `json:"fetched_at"`
	Windows   []Window  `json:"windows"`
}

// JSON renders the snapshot as a single compact line, the form the installed
// Waybar exec entries consume.
func (s *Snapshot) JSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encoding snapshot")
	}
	return data, nil
}

// Render returns the human-readable view printed by the usage command.
func (s *Snapshot) Render(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s usage as of %s\n", s.Service, s.FetchedAt.Local().Format(time.Kitchen))
	for _, w := range s.Windows {
		fmt.Fprintf(&b, "  %-4s %5.1f%%  resets in %s\n", w.Label+":", w.UsedPercent, FormatETA(w.ResetsAt, now))
	}
	return b.String()
}

// FormatETA renders the time remaining until resetsAt. An empty timestamp
// renders "0′00″" and an unparsable one "??′??″", so a bar widget shows a
// recognizable placeholder instead of an error. Elapsed resets render
// "0m00s".
func FormatETA(resetsAt string, now time.Time) string {
	if resetsAt == "" {
		return "0′00″"
	}
	t, err := time.Parse(time.RFC3339, resetsAt)
	if err != nil {
		return "??′??″"
	}

	total := int(t.Sub(now).Seconds())
	switch {
	case total <= 0:
		return "0m00s"
	case total >= 24*3600:
		return fmt.Sprintf("%dd%02dh", total/(24*3600), total%(24*3600)/3600)
	case total >= 3600:
		return fmt.Sprintf("%dh%02dm", total/3600, total%3600/60)
	default:
		return fmt.Sprintf("%dm%02ds", total/60, total%60)
	}
}

// clampPercent keeps provider-reported usage inside [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

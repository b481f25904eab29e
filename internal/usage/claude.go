package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
)

// DefaultClaudeBaseURL is the claude.ai origin.
const DefaultClaudeBaseURL = "https://claude.ai"

// The usage endpoint sits behind the web app, so requests present a browser
// user agent alongside the session cookie.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

const maxResponseSize = 1 << 20

// ClaudeClient fetches account usage from claude.ai with a session cookie.
// Credentials come from the tool config or environment; this client never
// reads browser profiles.
type ClaudeClient struct {
	SessionKey string
	OrgID      string

	base string
	http *http.Client
	now  func() time.Time
	log  *slog.Logger
}

// ClaudeOption configures a ClaudeClient.
type ClaudeOption func(*ClaudeClient)

// WithClaudeBaseURL overrides the claude.ai origin.
func WithClaudeBaseURL(base string) ClaudeOption {
	return func(c *ClaudeClient) {
		if base != "" {
			c.base = base
		}
	}
}

// WithClaudeHTTPClient overrides the HTTP client.
func WithClaudeHTTPClient(hc *http.Client) ClaudeOption {
	return func(c *ClaudeClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClaudeClock overrides the time source.
func WithClaudeClock(now func() time.Time) ClaudeOption {
	return func(c *ClaudeClient) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClaudeLogger sets the diagnostic logger.
func WithClaudeLogger(log *slog.Logger) ClaudeOption {
	return func(c *ClaudeClient) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClaudeClient returns a client for the given credentials.
func NewClaudeClient(sessionKey, orgID string, opts ...ClaudeOption) *ClaudeClient {
	c := &ClaudeClient{
		SessionKey: sessionKey,
		OrgID:      orgID,
		base:       DefaultClaudeBaseURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type claudeUsage struct {
	FiveHour claudeWindow `json:"five_hour"`
	SevenDay claudeWindow `json:"seven_day"`
}

type claudeWindow struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at"`
}

// Fetch performs one usage request. No retry: a failure surfaces to the
// caller and the next Waybar interval tries again.
func (c *ClaudeClient) Fetch(ctx context.Context) (*Snapshot, error) {
	if c.SessionKey == "" {
		return nil, errors.Wrap(errors.ErrMissingCredentials, "claude session key not configured")
	}
	if c.OrgID == "" {
		return nil, errors.Wrap(errors.ErrMissingCredentials, "claude organization id not configured")
	}

	url := fmt.Sprintf("%s/api/organizations/%s/usage", c.base, c.OrgID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building claude usage request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.base+"/chats")
	req.Header.Set("Origin", c.base)
	req.AddCookie(&http.Cookie{Name: "sessionKey", Value: c.SessionKey})

	c.log.Debug("fetching claude usage", "org_id", c.OrgID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching claude usage")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Wrapf(errors.ErrMissingCredentials, "claude rejected the session cookie (%s)", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf("claude usage endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "reading claude usage response")
	}
	var payload claudeUsage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "parsing claude usage response")
	}

	return &Snapshot{
		Service:   paths.ServiceClaude,
		FetchedAt: c.now().UTC(),
		Windows: []Window{
			{Label: WindowFiveHour, UsedPercent: clampPercent(payload.FiveHour.Utilization), ResetsAt: payload.FiveHour.ResetsAt},
			{Label: WindowSevenDay, UsedPercent: clampPercent(payload.SevenDay.Utilization), ResetsAt: payload.SevenDay.ResetsAt},
		},
	}, nil
}

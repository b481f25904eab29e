package usage

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/paths"
	"github.com/thoreinstein/waybar-ai-usage/pkg/fileutil"
)

// Endpoints of the Codex CLI account.
const (
	DefaultCodexBaseURL  = "https://chatgpt.com"
	DefaultCodexTokenURL = "https://auth.openai.com/oauth/token"
)

// codexClientID is the OAuth client the Codex CLI itself registered under;
// refreshes must present it or the grant is rejected.
const codexClientID = "app_EMoamEEZ73f0CkXaXp7hrann"

// codexRefreshAfter matches the Codex CLI's own rotation window. Tokens
// refreshed within it are presented as-is.
const codexRefreshAfter = 8 * 24 * time.Hour

// CodexClient fetches account usage for a Codex CLI login. It reads the
// CLI's auth.json, rotates the tokens through the OAuth refresh grant when
// they are near expiry, and persists the rotated file.
type CodexClient struct {
	AuthPath string

	base     string
	tokenURL string
	http     *http.Client
	now      func() time.Time
	log      *slog.Logger
}

// CodexOption configures a CodexClient.
type CodexOption func(*CodexClient)

// WithCodexBaseURL overrides the chatgpt.com origin.
func WithCodexBaseURL(base string) CodexOption {
	return func(c *CodexClient) {
		if base != "" {
			c.base = base
		}
	}
}

// WithCodexTokenURL overrides the OAuth token endpoint.
func WithCodexTokenURL(u string) CodexOption {
	return func(c *CodexClient) {
		if u != "" {
			c.tokenURL = u
		}
	}
}

// WithCodexHTTPClient overrides the HTTP client.
func WithCodexHTTPClient(hc *http.Client) CodexOption {
	return func(c *CodexClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCodexClock overrides the time source.
func WithCodexClock(now func() time.Time) CodexOption {
	return func(c *CodexClient) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCodexLogger sets the diagnostic logger.
func WithCodexLogger(log *slog.Logger) CodexOption {
	return func(c *CodexClient) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCodexClient returns a client reading credentials from authPath.
func NewCodexClient(authPath string, opts ...CodexOption) *CodexClient {
	c := &CodexClient{
		AuthPath: authPath,
		base:     DefaultCodexBaseURL,
		tokenURL: DefaultCodexTokenURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// codexAuth is the typed view of auth.json. Persisting goes through the raw
// map so fields this tool does not know about survive the rewrite.
type codexAuth struct {
	Tokens      codexTokens `json:"tokens"`
	LastRefresh string      `json:"last_refresh"`
}

type codexTokens struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccountID    string `json:"account_id"`
}

type codexUsage struct {
	RateLimit struct {
		Primary   codexWindow `json:"primary_window"`
		Secondary codexWindow `json:"secondary_window"`
	} `json:"rate_limit"`
}

type codexWindow struct {
	UsedPercent float64 `json:"used_percent"`
	ResetAt     int64   `json:"reset_at"`
}

// Fetch performs one usage request, refreshing the stored tokens first when
// they are older than the rotation window. No retry.
func (c *CodexClient) Fetch(ctx context.Context) (*Snapshot, error) {
	auth, raw, err := c.loadAuth()
	if err != nil {
		return nil, err
	}

	if c.needsRefresh(auth.LastRefresh) {
		if err := c.refresh(ctx, auth, raw); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/backend-api/wham/usage", nil)
	if err != nil {
		return nil, errors.Wrap(err, "building codex usage request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+auth.Tokens.AccessToken)
	req.Header.Set("ChatGPT-Account-Id", auth.Tokens.AccountID)

	c.log.Debug("fetching codex usage", "account_id", auth.Tokens.AccountID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching codex usage")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Wrapf(errors.ErrMissingCredentials, "codex rejected the access token (%s)", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf("codex usage endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "reading codex usage response")
	}
	var payload codexUsage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "parsing codex usage response")
	}

	return &Snapshot{
		Service:   paths.ServiceCodex,
		FetchedAt: c.now().UTC(),
		Windows: []Window{
			codexToWindow(WindowFiveHour, payload.RateLimit.Primary),
			codexToWindow(WindowSevenDay, payload.RateLimit.Secondary),
		},
	}, nil
}

func codexToWindow(label string, w codexWindow) Window {
	resetsAt := ""
	if w.ResetAt > 0 {
		resetsAt = time.Unix(w.ResetAt, 0).UTC().Format(time.RFC3339)
	}
	return Window{Label: label, UsedPercent: clampPercent(w.UsedPercent), ResetsAt: resetsAt}
}

// loadAuth reads auth.json into both a typed view and a raw map. The raw map
// is what gets written back, so unknown fields are preserved.
func (c *CodexClient) loadAuth() (*codexAuth, map[string]json.RawMessage, error) {
	data, err := fileutil.ReadFileWithLimit(c.AuthPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, errors.Wrapf(errors.ErrMissingCredentials, "codex auth file %s not found", c.AuthPath)
		}
		return nil, nil, errors.Wrap(err, "reading codex auth file")
	}

	var auth codexAuth
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, nil, errors.Wrap(err, "parsing codex auth file")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Wrap(err, "parsing codex auth file")
	}

	if auth.Tokens.AccessToken == "" || auth.Tokens.RefreshToken == "" {
		return nil, nil, errors.Wrapf(errors.ErrMissingCredentials, "codex auth file %s has no tokens", c.AuthPath)
	}
	if auth.Tokens.AccountID == "" {
		return nil, nil, errors.Wrapf(errors.ErrMissingCredentials, "codex auth file %s has no account id", c.AuthPath)
	}
	return &auth, raw, nil
}

// needsRefresh reports whether the stored tokens are past the rotation
// window. A missing or unreadable stamp counts as past it.
func (c *CodexClient) needsRefresh(lastRefresh string) bool {
	if lastRefresh == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339, lastRefresh)
	if err != nil {
		return true
	}
	return c.now().Sub(t) > codexRefreshAfter
}

// refresh rotates the tokens through the OAuth refresh grant and persists
// the updated auth.json with the original file's permissions.
func (c *CodexClient) refresh(ctx context.Context, auth *codexAuth, raw map[string]json.RawMessage) error {
	conf := &oauth2.Config{
		ClientID: codexClientID,
		Endpoint: oauth2.Endpoint{TokenURL: c.tokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: auth.Tokens.RefreshToken}).Token()
	if err != nil {
		return errors.Wrap(err, "refreshing codex token")
	}

	auth.Tokens.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		auth.Tokens.RefreshToken = tok.RefreshToken
	}
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		auth.Tokens.IDToken = id
	}
	auth.LastRefresh = c.now().UTC().Format(time.RFC3339)

	if err := c.persistAuth(auth, raw); err != nil {
		return err
	}
	c.log.Info("refreshed codex credentials", "auth_path", c.AuthPath)
	return nil
}

func (c *CodexClient) persistAuth(auth *codexAuth, raw map[string]json.RawMessage) error {
	rawTokens := map[string]json.RawMessage{}
	if t, ok := raw["tokens"]; ok {
		// Best effort: a malformed tokens object was already rejected by
		// loadAuth.
		_ = json.Unmarshal(t, &rawTokens)
	}
	setRawString(rawTokens, "id_token", auth.Tokens.IDToken)
	setRawString(rawTokens, "access_token", auth.Tokens.AccessToken)
	setRawString(rawTokens, "refresh_token", auth.Tokens.RefreshToken)

	tokens, err := json.Marshal(rawTokens)
	if err != nil {
		return errors.Wrap(err, "encoding codex tokens")
	}
	raw["tokens"] = tokens
	setRawString(raw, "last_refresh", auth.LastRefresh)

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding codex auth file")
	}
	data = append(data, '\n')

	perm := os.FileMode(0o600)
	if info, err := os.Stat(c.AuthPath); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.AtomicWriteFile(c.AuthPath, data, perm); err != nil {
		return errors.Wrap(err, "writing codex auth file")
	}
	return nil
}

func setRawString(m map[string]json.RawMessage, key, value string) {
	data, _ := json.Marshal(value)
	m[key] = data
}

package usage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
	"github.com/thoreinstein/waybar-ai-usage/internal/logging"
)

func TestClaudeFetch(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/organizations/org-123/usage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if cookie, err := r.Cookie("sessionKey"); err != nil || cookie.Value != "sk-ant-sid01-secret" {
			t.Errorf("session cookie = %v, %v", cookie, err)
		}
		if got := r.Header.Get("Origin"); got != srv.URL {
			t.Errorf("Origin = %q, want %q", got, srv.URL)
		}
		if got := r.Header.Get("Referer"); got != srv.URL+"/chats" {
			t.Errorf("Referer = %q, want %q", got, srv.URL+"/chats")
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"five_hour": {"utilization": 42.5, "resets_at": "2025-08-12T13:00:00Z"},
			"seven_day": {"utilization": 120, "resets_at": "2025-08-15T00:00:00Z"}
		}`)
	}))
	defer srv.Close()

	frozen := time.Date(2025, 8, 12, 12, 0, 0, 0, time.UTC)
	c := NewClaudeClient("sk-ant-sid01-secret", "org-123",
		WithClaudeBaseURL(srv.URL),
		WithClaudeHTTPClient(srv.Client()),
		WithClaudeClock(func() time.Time { return frozen }),
		WithClaudeLogger(logging.ForTest(t)))

	snap, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snap.Service != "claude" {
		t.Errorf("service = %q", snap.Service)
	}
	if !snap.FetchedAt.Equal(frozen) {
		t.Errorf("fetched_at = %v, want %v", snap.FetchedAt, frozen)
	}
	if len(snap.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(snap.Windows))
	}
	want := Window{Label: WindowFiveHour, UsedPercent: 42.5, ResetsAt: "2025-08-12T13:00:00Z"}
	if snap.Windows[0] != want {
		t.Errorf("five hour window = %+v, want %+v", snap.Windows[0], want)
	}
	// Over-100 utilization is clamped for presentation.
	want = Window{Label: WindowSevenDay, UsedPercent: 100, ResetsAt: "2025-08-15T00:00:00Z"}
	if snap.Windows[1] != want {
		t.Errorf("seven day window = %+v, want %+v", snap.Windows[1], want)
	}
}

func TestClaudeFetch_MissingCredentials(t *testing.T) {
	tests := []struct {
		name       string
		sessionKey string
		orgID      string
	}{
		{"no session key", "", "org-123"},
		{"no org id", "sk-ant-sid01-secret", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClaudeClient(tt.sessionKey, tt.orgID, WithClaudeLogger(logging.ForTest(t)))
			_, err := c.Fetch(context.Background())
			if !errors.Is(err, errors.ErrMissingCredentials) {
				t.Errorf("Fetch() error = %v, want ErrMissingCredentials", err)
			}
		})
	}
}

func TestClaudeFetch_RejectedCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClaudeClient("expired", "org-123",
		WithClaudeBaseURL(srv.URL),
		WithClaudeHTTPClient(srv.Client()),
		WithClaudeLogger(logging.ForTest(t)))

	_, err := c.Fetch(context.Background())
	if !errors.Is(err, errors.ErrMissingCredentials) {
		t.Errorf("Fetch() error = %v, want ErrMissingCredentials", err)
	}
}

func TestClaudeFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClaudeClient("sk-ant-sid01-secret", "org-123",
		WithClaudeBaseURL(srv.URL),
		WithClaudeHTTPClient(srv.Client()),
		WithClaudeLogger(logging.ForTest(t)))

	_, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() error = nil, want failure")
	}
	if errors.Is(err, errors.ErrMissingCredentials) {
		t.Errorf("Fetch() error = %v, want a plain upstream error", err)
	}
}

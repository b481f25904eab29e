package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/waybar-ai-usage/internal/errors"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes confirms", input: "yes\n", want: true},
		{name: "y confirms", input: "y\n", want: true},
		{name: "Y confirms (case insensitive)", input: "Y\n", want: true},
		{name: "n declines", input: "n\n", want: false},
		{name: "empty declines", input: "\n", want: false},
		{name: "whitespace around y", input: "  y  \n", want: true},
		{name: "garbage declines", input: "maybe\n", want: false},
		{name: "eof declines", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(&out, strings.NewReader(tt.input), "Proceed?")
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Proceed? [y/N]") {
				t.Errorf("prompt not written, got %q", out.String())
			}
		})
	}
}

func TestGateWrite(t *testing.T) {
	t.Run("yes skips the prompt", func(t *testing.T) {
		var out bytes.Buffer
		if err := gateWrite(&out, strings.NewReader(""), true, false, "c", "s"); err != nil {
			t.Fatalf("gateWrite() error = %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no output, got %q", out.String())
		}
	})

	t.Run("dry-run skips the prompt", func(t *testing.T) {
		var out bytes.Buffer
		if err := gateWrite(&out, strings.NewReader(""), false, true, "c", "s"); err != nil {
			t.Fatalf("gateWrite() error = %v", err)
		}
	})

	t.Run("accepted prompt proceeds", func(t *testing.T) {
		var out bytes.Buffer
		if err := gateWrite(&out, strings.NewReader("y\n"), false, false, "c", "s"); err != nil {
			t.Fatalf("gateWrite() error = %v", err)
		}
		if !strings.Contains(out.String(), "This may modify:") {
			t.Errorf("missing target listing in %q", out.String())
		}
	})

	t.Run("declined prompt aborts with user code", func(t *testing.T) {
		var out bytes.Buffer
		err := gateWrite(&out, strings.NewReader("n\n"), false, false, "c", "s")
		if !errors.Is(err, errors.ErrAborted) {
			t.Fatalf("gateWrite() error = %v, want ErrAborted", err)
		}
		var exitErr *errors.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != errors.ExitUser {
			t.Errorf("expected user exit code, got %v", err)
		}
		if !strings.Contains(out.String(), "Aborted.") {
			t.Errorf("missing Aborted. line in %q", out.String())
		}
	})
}

func TestResolveTargets(t *testing.T) {
	cfg, err := toolConfig()
	if err != nil {
		t.Fatalf("toolConfig() error = %v", err)
	}

	configPath, stylePath := resolveTargets(cfg, "", "")
	if configPath != cfg.Waybar.ConfigPath || stylePath != cfg.Waybar.StylePath {
		t.Errorf("defaults not taken from config: %q %q", configPath, stylePath)
	}

	configPath, stylePath = resolveTargets(cfg, "/tmp/c.jsonc", "/tmp/s.css")
	if configPath != "/tmp/c.jsonc" || stylePath != "/tmp/s.css" {
		t.Errorf("flags should win: %q %q", configPath, stylePath)
	}
}

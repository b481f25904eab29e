package jsondoc

import (
	"slices"
	"strings"
	"testing"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	input := `{
  "layer": "top",
  "modules-left": ["clock"],
  "custom/claude-usage": {
    "format": "{}",
    "interval": 60
  },
  "zeta": 1,
  "alpha": 2
}`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"layer", "modules-left", "custom/claude-usage", "zeta", "alpha"}
	if got := doc.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestParse_JSONCInput(t *testing.T) {
	input := `{
  // bar position
  "layer": "top", /* inline */
  "modules-left": [
    "clock", // trailing comma next
  ],
}`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, _ := doc.Get("layer"); got != "top" {
		t.Errorf("layer = %v, want top", got)
	}
	list, ok := doc.StringList("modules-left")
	if !ok || !slices.Equal(list, []string{"clock"}) {
		t.Errorf("modules-left = %v (ok=%v), want [clock]", list, ok)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t\n"} {
		doc, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		if doc.Len() != 0 {
			t.Errorf("Parse(%q).Len() = %d, want 0", input, doc.Len())
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated object", `{"a": `},
		{"array at top level", `[1, 2, 3]`},
		{"bare scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Error("Parse() error = nil, want parse failure")
			}
		})
	}
}

func TestDocument_SetGetDelete(t *testing.T) {
	doc := New()

	doc.Set("a", 1)
	doc.Set("b", "two")
	doc.Set("a", 3) // overwrite keeps position

	if got := doc.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", got)
	}
	if got, ok := doc.Get("a"); !ok || got != 3 {
		t.Errorf("Get(a) = %v, %v; want 3, true", got, ok)
	}
	if !doc.Has("b") {
		t.Error("Has(b) = false, want true")
	}

	if !doc.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if doc.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}
	if doc.Has("a") {
		t.Error("Has(a) = true after delete")
	}
	if doc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", doc.Len())
	}
}

func TestDocument_StringList(t *testing.T) {
	doc, err := Parse([]byte(`{
  "strings": ["a", "b"],
  "mixed": ["a", 1],
  "scalar": "x"
}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		key    string
		want   []string
		wantOK bool
	}{
		{"strings", []string{"a", "b"}, true},
		{"mixed", nil, false},
		{"scalar", nil, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := doc.StringList(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("StringList(%s) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && !slices.Equal(got, tt.want) {
				t.Errorf("StringList(%s) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestDocument_Encode(t *testing.T) {
	doc, err := Parse([]byte(`{"b": {"y": 2, "x": 1}, "a": "bar & baz"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{
  "b": {
    "y": 2,
    "x": 1
  },
  "a": "bar & baz"
}
`
	if string(out) != want {
		t.Errorf("Encode() = %q, want %q", out, want)
	}
}

func TestDocument_Encode_NoHTMLEscaping(t *testing.T) {
	doc, err := Parse([]byte(`{
  "custom/claude-usage": {
    "on-click": "waybar-ai-usage usage claude --fresh && pkill -RTMIN+8 waybar",
    "tooltip-format": "<b>{}</b>"
  }
}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got := string(out)
	for _, want := range []string{"--fresh && pkill", "<b>{}</b>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Encode() lost %q:\n%s", want, got)
		}
	}
	for _, escape := range []string{`\u0026`, `\u003c`, `\u003e`} {
		if strings.Contains(got, escape) {
			t.Errorf("Encode() escaped to %q:\n%s", escape, got)
		}
	}
}

func TestDocument_EncodeRoundTripStable(t *testing.T) {
	doc, err := Parse([]byte(`{
  // comment is dropped on encode
  "modules-left": ["clock", "custom/claude-usage"],
  "custom/claude-usage": {"exec": "waybar-ai-usage usage claude --waybar", "interval": 60}
}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	first, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	reparsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse(encoded) error = %v", err)
	}
	second, err := reparsed.Encode()
	if err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("encode not stable:\nfirst:  %s\nsecond: %s", first, second)
	}
	if !strings.HasSuffix(string(first), "\n") {
		t.Error("Encode() missing trailing newline")
	}
}
